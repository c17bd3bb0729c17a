package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/wmsclient/internal/client/auth"
	"github.com/dmitrijs2005/wmsclient/internal/client/client"
	"github.com/dmitrijs2005/wmsclient/internal/client/models"
	"github.com/dmitrijs2005/wmsclient/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wmsclient/internal/logging"
)

var ErrNoTokenInResponse = errors.New("login response carries no token")

// AuthService signs the user in and out and manages the cached profile.
//
// Contract:
//   - Login: authenticate against the backend, keep the token and profile.
//   - Logout: forget the token and the cached profile.
//   - Me: current profile; the cached copy when the backend is unreachable.
//   - UpdateMe: change the profile remotely and refresh the cache.
//   - RequestPasswordReset: ask the backend to send a reset link.
type AuthService struct {
	transport client.Transport
	tokens    client.TokenStore
	store     *kv.Adapter
	log       logging.Logger
}

func NewAuthService(transport client.Transport, tokens client.TokenStore, store *kv.Adapter, log logging.Logger) *AuthService {
	if log == nil {
		log = logging.NewNop()
	}
	return &AuthService{transport: transport, tokens: tokens, store: store, log: log.With("component", "auth")}
}

// Login posts the credentials and stores the returned token. The returned
// record is the user object of the response, or the whole response when it
// has none.
func (a *AuthService) Login(ctx context.Context, email, password string) (models.Record, error) {
	payload, err := a.transport.Do(ctx, http.MethodPost, "/auth/login",
		map[string]any{"email": email, "password": password}, nil)
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}

	rec, _ := models.AsRecord(payload)
	token := firstString(rec, "token", "access_token")
	if token == "" {
		return nil, ErrNoTokenInResponse
	}
	a.tokens.SetToken(ctx, token)

	user, ok := models.AsRecord(rec["user"])
	if !ok {
		user = rec.Clone()
		delete(user, "token")
		delete(user, "access_token")
	}
	a.cacheProfile(ctx, user)
	return user, nil
}

func (a *AuthService) Logout(ctx context.Context) {
	a.tokens.SetToken(ctx, "")
	a.store.Remove(ctx, auth.ProfileKey)
}

func (a *AuthService) Me(ctx context.Context) (models.Record, error) {
	payload, err := a.transport.Do(ctx, http.MethodGet, "/auth/me", nil, nil)
	if err == nil {
		rec, ok := models.AsRecord(payload)
		if !ok {
			return nil, ErrUnexpectedPayload
		}
		a.cacheProfile(ctx, rec)
		return rec, nil
	}

	if !client.IsUnavailable(err) {
		return nil, err
	}

	if rec, ok := a.cachedProfile(ctx); ok {
		a.log.Warn(ctx, "profile request failed, using cached profile", "error", err)
		return rec, nil
	}
	return nil, fmt.Errorf("%w: %w", client.ErrLocalDataNotAvailable, err)
}

func (a *AuthService) UpdateMe(ctx context.Context, data models.Record) (models.Record, error) {
	payload, err := a.transport.Do(ctx, http.MethodPut, "/auth/me", data, nil)
	if err != nil {
		return nil, fmt.Errorf("update profile error: %w", err)
	}
	rec, ok := nonEmptyRecord(payload)
	if !ok {
		cached, _ := a.cachedProfile(ctx)
		rec = cached.Merge(data)
	}
	a.cacheProfile(ctx, rec)
	return rec, nil
}

func (a *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := a.transport.Do(ctx, http.MethodPost, "/auth/password-reset", map[string]any{"email": email}, nil); err != nil {
		return fmt.Errorf("password reset error: %w", err)
	}
	return nil
}

func (a *AuthService) cacheProfile(ctx context.Context, rec models.Record) {
	if len(rec) == 0 {
		return
	}
	b, err := json.Marshal(rec)
	if err != nil {
		a.log.Warn(ctx, "profile not serializable", "error", err)
		return
	}
	a.store.Set(ctx, auth.ProfileKey, string(b))
}

func (a *AuthService) cachedProfile(ctx context.Context) (models.Record, bool) {
	raw, ok := a.store.Get(ctx, auth.ProfileKey)
	if !ok {
		return nil, false
	}
	var rec models.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec == nil {
		return nil, false
	}
	return rec, true
}

func firstString(rec models.Record, keys ...string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
