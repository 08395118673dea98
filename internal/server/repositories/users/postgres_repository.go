package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/dbx"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

const userColumns = `id::text, email, password_hash, name, role, consent_given, created_at, updated_at`

const (
	insertUserQuery = `INSERT INTO users (id, email, password_hash, name, role, consent_given)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	selectUserByIDQuery = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	selectUserByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	updateUserNameQuery = `UPDATE users SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	updateUserEmailQuery = `UPDATE users SET email = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user, assigning a new UUID when ID is empty. The email is
// normalized before the insert; the unique index on email has the last word
// when two registrations race.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = models.NormalizeEmail(user.Email)

	err := r.db.QueryRowContext(ctx, insertUserQuery,
		user.ID, user.Email, user.PasswordHash, user.Name, string(user.Role), user.ConsentGiven,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	// a subject that is not a UUID cannot name a stored user
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.scanOne(r.db.QueryRowContext(ctx, selectUserByIDQuery, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, selectUserByEmailQuery, models.NormalizeEmail(email)))
}

func (r *PostgresRepository) UpdateName(ctx context.Context, id string, name string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.scanOne(r.db.QueryRowContext(ctx, updateUserNameQuery, id, name))
}

func (r *PostgresRepository) UpdateEmail(ctx context.Context, id string, email string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return r.scanOne(r.db.QueryRowContext(ctx, updateUserEmailQuery, id, models.NormalizeEmail(email)))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var role string

	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&role, &user.ConsentGiven, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Role = models.Role(role)
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
