package gateway

import (
	"context"
	"net/http"

	"github.com/amythology/seedsmart-client/internal/nav"
	pkgerrors "github.com/amythology/seedsmart-client/pkg/errors"
)

// Login authenticates against the backend and persists the returned
// credential and identity fields through the session writer.
func (c *Client) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if err := validatePayload(input); err != nil {
		return nil, err
	}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, input, &result, requestOptions{skipAuth: true}); err != nil {
		return nil, err
	}
	if result.AccessToken == "" || result.UserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDecode, "login response missing credential fields")
	}
	if !result.UserRole.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeDecode, "login response carries unknown role")
	}

	if err := c.sessions.EstablishSession(ctx, result.AccessToken, result.UserID, result.UserRole); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting session")
	}

	lctx := c.logg.WithActorRole(c.logg.WithUserID(ctx, result.UserID), result.UserRole.String())
	c.logg.Info(lctx, "login succeeded")
	return &result, nil
}

// Register creates a new account. The caller logs in separately afterwards.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*UserProfile, error) {
	if err := validatePayload(input); err != nil {
		return nil, err
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user role must be buyer or seller")
	}

	var profile UserProfile
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, input, &profile, requestOptions{skipAuth: true}); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Logout clears the persisted session and navigates to the home route.
// Purely local; the backend keeps no session state to revoke.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.sessions.ClearSession(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing session")
	}
	c.nav.NavigateTo(nav.RouteHome)
	c.logg.Info(ctx, "logged out")
	return nil
}
