package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

const testUserID = "7b0c4a52-3c1e-4d8e-9f61-0b1f7c6f2a10"

var userRowColumns = []string{"id", "email", "password_hash", "name", "role", "consent_given", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

func q(query string) string {
	return "^" + regexp.QuoteMeta(query) + "$"
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(q(insertUserQuery)).
		WithArgs(testUserID, "alice@example.com", "hash", "Alice", "patient", true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))

	u := &models.User{
		ID: testUserID, Email: "  Alice@Example.com ", PasswordHash: "hash",
		Name: "Alice", Role: models.RolePatient, ConsentGiven: true,
	}
	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, created, got.UpdatedAt)
}

func TestCreate_AssignsID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(q(insertUserQuery)).
		WithArgs(sqlmock.AnyArg(), "bob@example.com", "hash", "Bob", "provider", false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	got, err := repo.Create(context.Background(), &models.User{
		Email: "bob@example.com", PasswordHash: "hash", Name: "Bob", Role: models.RoleProvider,
	})
	require.NoError(t, err)
	assert.Len(t, got.ID, 36)
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(q(insertUserQuery)).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{
		ID: testUserID, Email: "dup@example.com", PasswordHash: "h", Name: "D", Role: models.RolePatient,
	})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(q(insertUserQuery)).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{ID: testUserID, Email: "a@b.c", Role: models.RolePatient})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ts := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q(selectUserByEmailQuery)).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(testUserID, "alice@example.com", "hash", "Alice", "patient", true, ts, ts))

	got, err := repo.GetByEmail(context.Background(), "ALICE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, &models.User{
		ID: testUserID, Email: "alice@example.com", PasswordHash: "hash", Name: "Alice",
		Role: models.RolePatient, ConsentGiven: true, CreatedAt: ts, UpdatedAt: ts,
	}, got)
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(q(selectUserByEmailQuery)).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q(selectUserByIDQuery)).
			WithArgs(testUserID).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(testUserID, "a@b.c", "h", "A", "provider", false, time.Now(), time.Now()))

		got, err := repo.GetByID(context.Background(), testUserID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleProvider, got.Role)
	})

	t.Run("not a uuid never reaches the db", func(t *testing.T) {
		repo, _ := newRepoWithMock(t)
		_, err := repo.GetByID(context.Background(), "not-a-uuid")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q(selectUserByIDQuery)).WithArgs(testUserID).WillReturnError(errors.New("db err"))

		_, err := repo.GetByID(context.Background(), testUserID)
		require.Error(t, err)
		assert.Regexp(t, `db error: .*db err`, err.Error())
	})
}

func TestUpdateName(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(q(updateUserNameQuery)).
		WithArgs(testUserID, "Alicia").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(testUserID, "a@b.c", "h", "Alicia", "patient", false, time.Now(), time.Now()))

	got, err := repo.UpdateName(context.Background(), testUserID, "Alicia")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)
}

func TestUpdateName_Missing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(q(updateUserNameQuery)).
		WithArgs(testUserID, "X").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateName(context.Background(), testUserID, "X")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateEmail(t *testing.T) {
	t.Run("normalizes", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q(updateUserEmailQuery)).
			WithArgs(testUserID, "new@example.com").
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(testUserID, "new@example.com", "h", "A", "patient", false, time.Now(), time.Now()))

		got, err := repo.UpdateEmail(context.Background(), testUserID, " NEW@example.com")
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", got.Email)
	})

	t.Run("unique violation", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q(updateUserEmailQuery)).
			WithArgs(testUserID, "taken@example.com").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		_, err := repo.UpdateEmail(context.Background(), testUserID, "taken@example.com")
		assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	})
}
