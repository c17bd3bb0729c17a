// Package auth holds the bearer token shared by every remote call.
//
// The token lives in memory and, when a persistence backend is attached,
// under TokenKey. The persisted value is read once when the manager is
// created; afterwards SetToken is the only mutation path and writes both.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/client/repositories/kv"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenKey is the persisted key of the bearer token.
	TokenKey = "wms_auth_token"
	// ProfileKey caches the last profile returned by the backend.
	ProfileKey = "wms_auth_user"
)

var ErrNoToken = errors.New("no token")

// Claims are the fields the backend puts into its access tokens.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	store *kv.Adapter
	mu    sync.RWMutex
	token string
}

// NewTokenManager hydrates the token from the store.
func NewTokenManager(ctx context.Context, store *kv.Adapter) *TokenManager {
	tm := &TokenManager{store: store}
	if v, ok := store.Get(ctx, TokenKey); ok {
		tm.token = v
	}
	return tm
}

// Token returns the current token, "" when signed out.
func (tm *TokenManager) Token() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.token
}

// SetToken replaces the token. An empty token clears memory and the persisted key.
func (tm *TokenManager) SetToken(ctx context.Context, token string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.token = token
	if token == "" {
		tm.store.Remove(ctx, TokenKey)
		return
	}
	tm.store.Set(ctx, TokenKey, token)
}

// Claims decodes the token payload without verifying the signature; the
// backend remains the authority on validity.
func (tm *TokenManager) Claims() (*Claims, error) {
	token := tm.Token()
	if token == "" {
		return nil, ErrNoToken
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Expired reports whether the token carries an exp claim before now.
// Tokens without exp, or that cannot be decoded, are not considered expired.
func (tm *TokenManager) Expired(now time.Time) bool {
	c, err := tm.Claims()
	if err != nil || c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.After(now)
}
