package client

import (
	"context"

	"github.com/dmitrijs2005/healthkeeper/internal/client/models"
)

type Client interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.Session, error)
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Me(ctx context.Context, token string) (*models.User, error)
	EditName(ctx context.Context, token, name string) (*models.User, error)
	EditEmail(ctx context.Context, token, email, password string) (*models.User, error)
	Ping(ctx context.Context) error
}
