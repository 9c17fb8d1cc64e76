package database

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// ConfigFromEnv reads connection settings from DB_* environment variables and
// fills in defaults suitable for a local Postgres.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process db env: %w", err)
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == "" {
		cfg.Port = "5432"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	if cfg.User == "" {
		return Config{}, fmt.Errorf("db user is required (set DB_USER)")
	}
	if cfg.Name == "" {
		return Config{}, fmt.Errorf("db name is required (set DB_NAME)")
	}
	return cfg, nil
}
