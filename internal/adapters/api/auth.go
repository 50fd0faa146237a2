package api

import (
	"context"
	"net/http"

	"schoolerp/internal/domain/account"
)

// AuthAPI covers /auth. A 401 here never clears the stored session.
type AuthAPI struct{ c *Client }

// Login exchanges credentials for a token and a raw user object.
func (a *AuthAPI) Login(ctx context.Context, req account.LoginRequest) (*Envelope[account.LoginData], error) {
	return call[account.LoginData](ctx, a.c, http.MethodPost, "/auth/login", req)
}

// Register creates a backend account.
func (a *AuthAPI) Register(ctx context.Context, req account.RegisterRequest) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, a.c, http.MethodPost, "/auth/register", req)
}

// UsersAPI covers /users.
type UsersAPI struct{ c *Client }

// GetAll lists every account.
func (u *UsersAPI) GetAll(ctx context.Context) (*Envelope[[]account.Account], error) {
	return call[[]account.Account](ctx, u.c, http.MethodGet, "/users", nil)
}

// Update changes an account's name or role.
func (u *UsersAPI) Update(ctx context.Context, userID string, req account.UpdateUserRequest) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, u.c, http.MethodPut, "/users/"+id(userID), req)
}

// Delete removes an account.
func (u *UsersAPI) Delete(ctx context.Context, userID string) (*Envelope[Untyped], error) {
	return call[Untyped](ctx, u.c, http.MethodDelete, "/users/"+id(userID), nil)
}
