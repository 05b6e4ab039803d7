// Package session wraps the persisted auth credential and identity fields
// and exposes the authenticated/role checks that gate the checkout flow.
// Session data is mutated only through the gateway's login/logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amythology/seedsmart-client/internal/nav"
	"github.com/amythology/seedsmart-client/internal/notify"
	"github.com/amythology/seedsmart-client/pkg/enums"
	"github.com/amythology/seedsmart-client/pkg/logger"
	"github.com/amythology/seedsmart-client/pkg/storage"
	"github.com/golang-jwt/jwt/v5"
)

type Store struct {
	storage  storage.Store
	notifier notify.Notifier
	nav      nav.Navigator
	logg     *logger.Logger
}

// NewStore builds the session store over the persistent key-value storage.
func NewStore(st storage.Store, notifier notify.Notifier, navigator nav.Navigator, logg *logger.Logger) (*Store, error) {
	if st == nil {
		return nil, fmt.Errorf("storage required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if navigator == nil {
		return nil, fmt.Errorf("navigator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{storage: st, notifier: notifier, nav: navigator, logg: logg}, nil
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	value, err := s.storage.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logg.Error(ctx, "session storage read failed", err)
		}
		return "", false
	}
	return value, value != ""
}

// Token returns the persisted bearer credential, if any.
func (s *Store) Token(ctx context.Context) (string, bool) {
	return s.read(ctx, storage.KeyToken)
}

// UserID returns the persisted user identifier, if any.
func (s *Store) UserID(ctx context.Context) (string, bool) {
	return s.read(ctx, storage.KeyUserID)
}

// Role returns the persisted role, if any.
func (s *Store) Role(ctx context.Context) (enums.UserRole, bool) {
	raw, ok := s.read(ctx, storage.KeyUserRole)
	if !ok {
		return "", false
	}
	role := enums.UserRole(raw)
	if !role.IsValid() {
		s.logg.Warn(s.logg.WithField(ctx, "role", raw), "ignoring unknown persisted role")
		return "", false
	}
	return role, true
}

// IsAuthenticated reports whether a credential is present.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// RequireAuthenticated redirects to the login route and returns false when
// no credential is present.
func (s *Store) RequireAuthenticated(ctx context.Context) bool {
	if s.IsAuthenticated(ctx) {
		return true
	}
	s.nav.NavigateTo(nav.RouteLogin)
	return false
}

// RequireRole layers a role equality check on RequireAuthenticated,
// surfacing a denial notification on mismatch.
func (s *Store) RequireRole(ctx context.Context, role enums.UserRole) bool {
	if !s.RequireAuthenticated(ctx) {
		return false
	}
	current, ok := s.Role(ctx)
	if !ok || current != role {
		s.notifier.Error("Access denied. Insufficient permissions.")
		return false
	}
	return true
}

// TokenExpiry decodes the credential's registered claims and returns its
// expiry. The signature is not verified here; the backend owns that.
func (s *Store) TokenExpiry(ctx context.Context) (time.Time, bool) {
	token, ok := s.Token(ctx)
	if !ok {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		s.logg.Warn(ctx, "session token is not a decodable jwt")
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// EstablishSession persists the credential and identity fields. Called by
// the gateway after a successful login.
func (s *Store) EstablishSession(ctx context.Context, token, userID string, role enums.UserRole) error {
	if token == "" || userID == "" {
		return fmt.Errorf("token and user id are required")
	}
	if !role.IsValid() {
		return fmt.Errorf("invalid role %q", role)
	}
	if err := s.storage.Set(ctx, storage.KeyToken, token); err != nil {
		return err
	}
	if err := s.storage.Set(ctx, storage.KeyUserID, userID); err != nil {
		return err
	}
	return s.storage.Set(ctx, storage.KeyUserRole, role.String())
}

// ClearSession removes the persisted credential and identity fields.
func (s *Store) ClearSession(ctx context.Context) error {
	return s.storage.Delete(ctx, storage.KeyToken, storage.KeyUserID, storage.KeyUserRole)
}
