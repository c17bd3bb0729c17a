package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/client/repositories/kv"
	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the wms CLI.
type Config struct {
	APIURL         string        `envconfig:"API_URL" validate:"required"`
	StoreType      string        `envconfig:"STORE" validate:"oneof=sqlite redis memory none"`
	StorePath      string        `envconfig:"STORE_PATH" validate:"required_if=StoreType sqlite"`
	RedisAddr      string        `envconfig:"REDIS_ADDR" validate:"required_if=StoreType redis"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	RedisDB        int           `envconfig:"REDIS_DB" validate:"gte=0"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" validate:"gte=0"`

	LogLevel  string `envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat string `envconfig:"LOG_FORMAT" validate:"oneof=text json"`

	MirrorMaxRecords  int `envconfig:"MIRROR_MAX_RECORDS" validate:"gte=0"`
	UploadsMaxEntries int `envconfig:"UPLOADS_MAX_ENTRIES" validate:"gte=0"`

	Backup Backup `envconfig:"BACKUP"`
}

// Backup configures the S3-compatible bucket used by backup and restore.
type Backup struct {
	Bucket    string `envconfig:"BUCKET"`
	Region    string `envconfig:"REGION"`
	Endpoint  string `envconfig:"ENDPOINT" validate:"omitempty,url"`
	AccessKey string `envconfig:"ACCESS_KEY"`
	SecretKey string `envconfig:"SECRET_KEY"`
	Prefix    string `envconfig:"PREFIX"`
	PathStyle bool   `envconfig:"PATH_STYLE"`
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://127.0.0.1:8080"
	c.StoreType = kv.TypeSQLite
	c.StorePath = "wms.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RequestTimeout = 0
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.Backup.Region = "us-east-1"
	c.Backup.Prefix = "wms"
}

// Sources names the optional files Load reads.
type Sources struct {
	File    string
	EnvFile string
}

// Load builds a Config from defaults, the TOML file and the environment.
// Flags are applied by the caller, which then calls Validate.
func Load(src Sources) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseTOML(cfg, src.File); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, src.EnvFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// StoreOptions maps the persistence settings onto kv.Options.
func (c *Config) StoreOptions() kv.Options {
	return kv.Options{
		Type:          c.StoreType,
		Path:          c.StorePath,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
	}
}
