package config

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/wmsclient/internal/timex"
	"github.com/pelletier/go-toml/v2"
)

// tomlConfig is a DTO used only for TOML decoding. Pointers tell unset keys
// apart from zero values so the file only overrides what it mentions.
type tomlConfig struct {
	APIURL            *string         `toml:"api_url"`
	StoreType         *string         `toml:"store_type"`
	StorePath         *string         `toml:"store_path"`
	RedisAddr         *string         `toml:"redis_addr"`
	RedisPassword     *string         `toml:"redis_password"`
	RedisDB           *int            `toml:"redis_db"`
	RequestTimeout    *timex.Duration `toml:"request_timeout"`
	LogLevel          *string         `toml:"log_level"`
	LogFormat         *string         `toml:"log_format"`
	MirrorMaxRecords  *int            `toml:"mirror_max_records"`
	UploadsMaxEntries *int            `toml:"uploads_max_entries"`
	Backup            *tomlBackup     `toml:"backup"`
}

type tomlBackup struct {
	Bucket    *string `toml:"bucket"`
	Region    *string `toml:"region"`
	Endpoint  *string `toml:"endpoint"`
	AccessKey *string `toml:"access_key"`
	SecretKey *string `toml:"secret_key"`
	Prefix    *string `toml:"prefix"`
	PathStyle *bool   `toml:"path_style"`
}

// parseTOML overlays cfg with the values found in path. An empty path is a no-op.
func parseTOML(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var tc tomlConfig
	if err := toml.Unmarshal(data, &tc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	set(&cfg.APIURL, tc.APIURL)
	set(&cfg.StoreType, tc.StoreType)
	set(&cfg.StorePath, tc.StorePath)
	set(&cfg.RedisAddr, tc.RedisAddr)
	set(&cfg.RedisPassword, tc.RedisPassword)
	set(&cfg.RedisDB, tc.RedisDB)
	if tc.RequestTimeout != nil {
		cfg.RequestTimeout = tc.RequestTimeout.Duration
	}
	set(&cfg.LogLevel, tc.LogLevel)
	set(&cfg.LogFormat, tc.LogFormat)
	set(&cfg.MirrorMaxRecords, tc.MirrorMaxRecords)
	set(&cfg.UploadsMaxEntries, tc.UploadsMaxEntries)

	if b := tc.Backup; b != nil {
		set(&cfg.Backup.Bucket, b.Bucket)
		set(&cfg.Backup.Region, b.Region)
		set(&cfg.Backup.Endpoint, b.Endpoint)
		set(&cfg.Backup.AccessKey, b.AccessKey)
		set(&cfg.Backup.SecretKey, b.SecretKey)
		set(&cfg.Backup.Prefix, b.Prefix)
		set(&cfg.Backup.PathStyle, b.PathStyle)
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
