// Package config handles configuration for the development backend:
// defaults, then WMS_SERVER_* environment variables (optionally loaded from
// a .env file), then command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/flagx"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "WMS_SERVER"

// Config holds runtime settings for the development backend.
//
// Fields:
//   - Address: HTTP bind address.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default outside development.
//   - TokenTTL: access token lifetime.
//   - SeedEmail / SeedPassword: account created at startup.
//   - MaxUploadBytes: largest accepted multipart upload.
//   - PublicURL: prefix of the file_url returned for uploads.
//   - RequireAuth: reject entity and file calls without a valid bearer token.
type Config struct {
	Address        string        `envconfig:"ADDRESS" validate:"required"`
	SecretKey      string        `envconfig:"SECRET_KEY" validate:"required,min=8"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL" validate:"gt=0"`
	SeedEmail      string        `envconfig:"SEED_EMAIL" validate:"omitempty,email"`
	SeedPassword   string        `envconfig:"SEED_PASSWORD" validate:"required_with=SeedEmail"`
	MaxUploadBytes int64         `envconfig:"MAX_UPLOAD_BYTES" validate:"gt=0"`
	PublicURL      string        `envconfig:"PUBLIC_URL"`
	RequireAuth    bool          `envconfig:"REQUIRE_AUTH"`
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.Address = ":8080"
	c.SecretKey = "dev-secret-key"
	c.TokenTTL = time.Hour
	c.SeedEmail = "admin@example.com"
	c.SeedPassword = "admin"
	c.MaxUploadBytes = 10 << 20
	c.PublicURL = "http://127.0.0.1:8080"
	c.RequireAuth = true
}

// LoadConfig builds a Config for the process command line.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds a Config from defaults, the environment and args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if envFile := flagx.StringFlag(args, "env"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
