package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/blogdesk/internal/client/models"
)

// AuthAPI wraps the /Auth endpoints.
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

// Login exchanges credentials for a token. A 2xx answer without a token is
// reported as an invalid response.
func (a *AuthAPI) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := a.c.DoAnonymous(ctx, http.MethodPost, "/Auth/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, transportError(errors.New("login response carries no token"))
	}
	return &resp, nil
}

func (a *AuthAPI) Register(ctx context.Context, req models.RegisterRequest) error {
	return a.c.DoAnonymous(ctx, http.MethodPost, "/Auth/register", req, nil)
}

type verifyResponse struct {
	User     *models.User `json:"user"`
	UserID   string       `json:"userId"`
	Email    string       `json:"email"`
	UserName string       `json:"userName"`
}

// Verify checks the stored token with the server. The returned user is nil
// when the server confirms the token without describing the user.
func (a *AuthAPI) Verify(ctx context.Context) (*models.User, error) {
	var resp verifyResponse
	if err := a.c.Do(ctx, http.MethodGet, "/Auth/verify", nil, &resp); err != nil {
		return nil, err
	}

	switch {
	case resp.User != nil:
		return resp.User, nil
	case resp.UserID != "":
		return &models.User{ID: resp.UserID, Email: resp.Email, UserName: resp.UserName, Role: models.RoleUser}, nil
	default:
		return nil, nil
	}
}
