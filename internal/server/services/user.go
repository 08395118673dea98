// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and the profile operations
// available to an authenticated user.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/server/auth"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/users"
)

var (
	ErrRegisterFieldsRequired = common.NewValidationError("name, email, password and role are required")
	ErrInvalidRole            = common.NewValidationError("role must be patient or provider")
	ErrCredentialsRequired    = common.NewValidationError("email and password required")
	ErrNameRequired           = common.NewValidationError("name is required")
	ErrEmailUnchanged         = common.NewValidationError("new email must differ from current email")
)

// TokenIssuer signs session tokens for a user.
type TokenIssuer interface {
	Issue(subjectID, role string) (string, error)
}

// RegisterInput is the registration request. ConsentGiven defaults to false.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Role         string
	ConsentGiven bool
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *models.User
	Token string
}

// UserService provides the account operations:
// - Register: create a user and sign a token
// - Login: verify credentials and sign a token
// - Profile, ChangeName, ChangeEmail: operate on the caller's own record
type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      TokenIssuer
}

func NewUserService(m repomanager.RepositoryManager, hasher auth.PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Register creates a user with a normalized email and returns it with a fresh
// token. A taken email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := models.NormalizeEmail(in.Email)

	if name == "" || email == "" || in.Password == "" || in.Role == "" {
		return nil, ErrRegisterFieldsRequired
	}

	role := models.Role(in.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	repo := s.repomanager.Users()

	// advisory only, the unique index decides on insert
	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, internal("lookup user", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := repo.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		ConsentGiven: in.ConsentGiven,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, internal("create user", err)
	}

	return s.authResult(user)
}

// Login checks the credentials. Unknown email and wrong password both return
// common.ErrorUnauthorized after one bcrypt comparison.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	user, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, auth.DummyHash())
			return nil, common.ErrorUnauthorized
		}
		return nil, internal("lookup user", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	return s.authResult(user)
}

// Profile returns the user identified by userID.
func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOrInternal("get user", err)
	}
	return user, nil
}

// ChangeName sets the display name, trimmed of surrounding whitespace.
func (s *UserService) ChangeName(ctx context.Context, userID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	user, err := s.repomanager.Users().UpdateName(ctx, userID, name)
	if err != nil {
		return nil, notFoundOrInternal("update name", err)
	}
	return user, nil
}

// ChangeEmail replaces the user's email after re-checking the current
// password. On any failure the stored email is left as it was.
func (s *UserService) ChangeEmail(ctx context.Context, userID, newEmail, password string) (*models.User, error) {
	email := models.NormalizeEmail(newEmail)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	current, err := s.repomanager.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOrInternal("get user", err)
	}

	ok, err := s.hasher.Verify(password, current.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	if email == current.Email {
		return nil, ErrEmailUnchanged
	}

	var updated *models.User
	err = s.repomanager.InTx(ctx, func(ctx context.Context, repo users.Repository) error {
		_, err := repo.GetByEmail(ctx, email)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		updated, err = repo.UpdateEmail(ctx, userID, email)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, notFoundOrInternal("update email", err)
	}

	return updated, nil
}

func (s *UserService) authResult(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func notFoundOrInternal(op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return internal(op, err)
}

func internal(op string, err error) error {
	if errors.Is(err, common.ErrorInternal) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", common.ErrorInternal, op, err)
}
