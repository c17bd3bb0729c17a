package users

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/common"
	"github.com/dmitrijs2005/wmsclient/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return NewService(NewMemoryRepository(), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	u, err := s.Register(ctx, "Ops@Example.com", "pw", "Ops", "admin")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("pw")))

	_, err = s.Register(ctx, "ops@example.com", "pw2", "Dup", "")
	require.ErrorIs(t, err, common.ErrAlreadyExists)

	token, got, err := s.Login(ctx, " ops@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	authed, err := s.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, authed.ID)
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	_, err := s.Register(ctx, "a@b.c", "right", "", "")
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "a@b.c", "wrong")
	require.ErrorIs(t, err, common.ErrUnauthorized)

	_, _, err = s.Login(ctx, "nobody@b.c", "right")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthenticate_Expired(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	s.tokenTTL = -time.Second
	_, err := s.Register(ctx, "a@b.c", "pw", "", "")
	require.NoError(t, err)

	token, _, err := s.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)

	_, err = s.Authenticate(ctx, token)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	u, err := s.Register(ctx, "a@b.c", "pw", "Old", "user")
	require.NoError(t, err)

	got, err := s.UpdateProfile(ctx, u.ID, map[string]any{
		"full_name": "New",
		"phone":     "123",
		"role":      "admin",
		"email":     "x@y.z",
	})
	require.NoError(t, err)

	view := got.View()
	assert.Equal(t, "New", view["full_name"])
	assert.Equal(t, "123", view["phone"])
	assert.Equal(t, "user", view["role"])
	assert.Equal(t, "a@b.c", view["email"])

	_, err = s.UpdateProfile(ctx, "missing", nil)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestRequestPasswordReset(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	u, err := s.Register(ctx, "a@b.c", "pw", "", "")
	require.NoError(t, err)

	token, err := s.RequestPasswordReset(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Len(t, token, resetTokenBytes*2)
	assert.Equal(t, u.ID, s.resetTokens[token])

	token, err = s.RequestPasswordReset(ctx, "unknown@b.c")
	require.NoError(t, err)
	assert.Empty(t, token)
}
