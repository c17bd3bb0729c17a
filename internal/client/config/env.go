package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "WMS"

// parseEnv loads envFile into the process environment (existing variables
// win) and overlays cfg with every WMS_* variable that is set.
func parseEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}
