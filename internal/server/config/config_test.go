package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.Address)
	assert.Equal(t, time.Hour, c.TokenTTL)
	assert.True(t, c.RequireAuth)
	assert.Equal(t, int64(10<<20), c.MaxUploadBytes)
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load([]string{
		"-a", "127.0.0.1:9090", "-s", "another-secret", "-t", "5",
		"-u", "ops@example.com", "-p", "pw", "-m", "1024", "-l", "http://files", "-auth=false",
		"-unrelated", "x",
	})
	require.NoError(t, err)

	want := &Config{
		Address:        "127.0.0.1:9090",
		SecretKey:      "another-secret",
		TokenTTL:       5 * time.Minute,
		SeedEmail:      "ops@example.com",
		SeedPassword:   "pw",
		MaxUploadBytes: 1024,
		PublicURL:      "http://files",
		RequireAuth:    false,
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoad_EnvThenFlags(t *testing.T) {
	t.Setenv("WMS_SERVER_ADDRESS", ":7000")
	t.Setenv("WMS_SERVER_TOKEN_TTL", "30m")

	cfg, err := Load([]string{"-a", ":7001"})
	require.NoError(t, err)
	assert.Equal(t, ":7001", cfg.Address)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.env")
	require.NoError(t, os.WriteFile(path, []byte("WMS_SERVER_SECRET_KEY=from-dotenv-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("WMS_SERVER_SECRET_KEY") })

	cfg, err := Load([]string{"-env", path})
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv-file", cfg.SecretKey)

	_, err = Load([]string{"-env", filepath.Join(t.TempDir(), "missing.env")})
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := [][]string{
		{"-t", "abc"},
		{"-s", "short"},
		{"-t", "0"},
		{"-u", "not-an-email"},
	}
	for _, args := range tests {
		_, err := Load(args)
		assert.Error(t, err, args)
	}
}
