// ABOUTME: Client for the external users service
// ABOUTME: Forwards login and registration requests

package upstream

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// LoginRequest is the users service's login body.
type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

// RegisterRequest is the users service's registration body.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Users talks to the users service.
type Users struct {
	base
}

// NewUsers creates a users client. A nil httpClient uses http.DefaultClient.
func NewUsers(baseURL string, httpClient *http.Client, timeout time.Duration, logger *slog.Logger) *Users {
	return &Users{base: newBase(baseURL, httpClient, timeout, logger)}
}

// Login posts credentials to /v1/auth/login.
func (u *Users) Login(ctx context.Context, req LoginRequest) (*Response, error) {
	return u.do(ctx, http.MethodPost, "/v1/auth/login", req, u.timeout)
}

// Register posts a new account to /v1/users/register.
func (u *Users) Register(ctx context.Context, req RegisterRequest) (*Response, error) {
	return u.do(ctx, http.MethodPost, "/v1/users/register", req, u.timeout)
}
