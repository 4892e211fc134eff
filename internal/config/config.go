package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the ledger. Values come from
// BANK_-prefixed environment variables; the CLI loads a .env file first.
type Config struct {
	DataPath         string        `envconfig:"DATA_PATH" default:"data/accounts.json"`
	BackupDir        string        `envconfig:"BACKUP_DIR" default:"data/backups"`
	Store            string        `envconfig:"STORE" default:"json"`
	AutoSaveInterval time.Duration `envconfig:"AUTOSAVE_INTERVAL" default:"5m"`
	LogFormat        string        `envconfig:"LOG_FORMAT" default:"pretty"`
	Currency         string        `envconfig:"CURRENCY" default:"ZAR"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("bank", &cfg); err != nil {
		return nil, err
	}
	if cfg.Store != "json" && cfg.Store != "bolt" {
		return nil, fmt.Errorf("unknown store %q (want json or bolt)", cfg.Store)
	}
	if cfg.AutoSaveInterval < time.Second {
		return nil, fmt.Errorf("autosave interval %s too short", cfg.AutoSaveInterval)
	}
	return &cfg, nil
}
