package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/users"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestManagersImplementInterface(t *testing.T) {
	db, _ := newDB(t)

	var _ RepositoryManager = NewPostgresRepositoryManager(db)
	var _ RepositoryManager = NewMemoryRepositoryManager()

	var _ users.Repository = NewPostgresRepositoryManager(db).Users()
	var _ users.Repository = NewMemoryRepositoryManager().Users()
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if got != db {
			return errors.New("unexpected db")
		}
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return nil
	}

	require.NoError(t, NewPostgresRepositoryManager(db).RunMigrations(context.Background()))
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	err := NewPostgresRepositoryManager(db).RunMigrations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration error: boom")
}

func TestPostgresInTx_CommitsAndRollsBack(t *testing.T) {
	db, mock := newDB(t)
	m := NewPostgresRepositoryManager(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("a@b.c").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	err := m.InTx(context.Background(), func(ctx context.Context, repo users.Repository) error {
		_, err := repo.GetByEmail(ctx, "a@b.c")
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err = m.InTx(context.Background(), func(ctx context.Context, repo users.Repository) error {
		return common.ErrorAlreadyExists
	})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryInTx_Serializes(t *testing.T) {
	m := NewMemoryRepositoryManager()
	require.NoError(t, m.RunMigrations(context.Background()))

	inside := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = m.InTx(context.Background(), func(ctx context.Context, _ users.Repository) error {
			close(inside)
			<-release
			return nil
		})
	}()
	<-inside

	go func() {
		_ = m.InTx(context.Background(), func(ctx context.Context, _ users.Repository) error {
			close(done)
			return nil
		})
	}()

	select {
	case <-done:
		t.Fatal("second transaction ran while the first was open")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second transaction never ran")
	}

	assert.NoError(t, m.Close())
}
