package users

import (
	"context"

	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

// Repository is the user-record store. Implementations return
// common.ErrorNotFound for missing users and common.ErrorAlreadyExists when a
// write would duplicate an email.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateName(ctx context.Context, id string, name string) (*models.User, error)
	UpdateEmail(ctx context.Context, id string, email string) (*models.User, error)
}
