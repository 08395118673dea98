package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/client/models"
	"github.com/dmitrijs2005/healthkeeper/internal/netx"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type userEnvelope struct {
	User models.User `json:"user"`
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.Session, error) {
	var out models.Session
	if err := c.post(ctx, "/api/auth/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var out models.Session
	in := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/api/auth/login", "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	return c.userCall(ctx, "/api/auth/me", token, struct{}{})
}

func (c *HTTPClient) EditName(ctx context.Context, token, name string) (*models.User, error) {
	return c.userCall(ctx, "/api/auth/editname", token, map[string]string{"name": name})
}

func (c *HTTPClient) EditEmail(ctx context.Context, token, email, password string) (*models.User, error) {
	return c.userCall(ctx, "/api/auth/editemail", token, map[string]string{"email": email, "password": password})
}

// Ping checks GET /health.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) userCall(ctx context.Context, path, token string, in any) (*models.User, error) {
	var out userEnvelope
	if err := c.post(ctx, path, token, in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) post(ctx context.Context, path, token string, in, out any) error {
	err := netx.PostJSON(ctx, c.http, c.baseURL+path, token, in, out)
	if err == nil {
		return nil
	}

	var (
		se *netx.StatusError
		ue *url.Error
	)
	switch {
	case errors.As(err, &se):
		if se.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %w", ErrUnauthorized, se)
		}
		return se
	case errors.As(err, &ue) && !errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}
