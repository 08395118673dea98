// Package services contains application services for the healthkeeper CLI.
// This file defines the authentication service, which keeps the current
// session in memory and forwards account operations to the server.
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/healthkeeper/internal/client/client"
	"github.com/dmitrijs2005/healthkeeper/internal/client/models"
)

var ErrNotLoggedIn = errors.New("not logged in")

// AuthService defines the account operations available to the CLI.
//
// Contract:
//   - Register / Login: start a session on success.
//   - Profile, ChangeName, ChangeEmail: require a session; a 401 from the
//     server ends it.
//   - Logout: forget the session locally. Tokens are stateless, so the
//     server is not contacted.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	Profile(ctx context.Context) (*models.User, error)
	ChangeName(ctx context.Context, name string) (*models.User, error)
	ChangeEmail(ctx context.Context, email, password string) (*models.User, error)
	Logout()
	CurrentUser() (models.User, bool)
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client

	mu    sync.Mutex
	token string
	user  models.User
}

func NewAuthService(c client.Client) AuthService {
	return &authService{client: c}
}

func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	s, err := a.client.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	a.setSession(s.Token, s.User)
	return &s.User, nil
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	s, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	a.setSession(s.Token, s.User)
	return &s.User, nil
}

func (a *authService) Profile(ctx context.Context) (*models.User, error) {
	return a.guarded(ctx, func(token string) (*models.User, error) {
		return a.client.Me(ctx, token)
	})
}

func (a *authService) ChangeName(ctx context.Context, name string) (*models.User, error) {
	return a.guarded(ctx, func(token string) (*models.User, error) {
		return a.client.EditName(ctx, token, name)
	})
}

// ChangeEmail keeps the session when the server rejects the password: the
// 401 there is about the password, not the token.
func (a *authService) ChangeEmail(ctx context.Context, email, password string) (*models.User, error) {
	token, ok := a.currentToken()
	if !ok {
		return nil, ErrNotLoggedIn
	}

	u, err := a.client.EditEmail(ctx, token, email, password)
	if err != nil {
		return nil, err
	}
	a.setSession(token, *u)
	return u, nil
}

func (a *authService) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = ""
	a.user = models.User{}
}

func (a *authService) CurrentUser() (models.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user, a.token != ""
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) guarded(ctx context.Context, call func(token string) (*models.User, error)) (*models.User, error) {
	token, ok := a.currentToken()
	if !ok {
		return nil, ErrNotLoggedIn
	}

	u, err := call(token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.Logout()
		}
		return nil, err
	}

	a.setSession(token, *u)
	return u, nil
}

func (a *authService) currentToken() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token, a.token != ""
}

func (a *authService) setSession(token string, u models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
	a.user = u
}
