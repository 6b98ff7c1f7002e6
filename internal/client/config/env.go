package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// envConfig is a DTO for the environment layer. Only variables that are
// actually set override the earlier layers.
type envConfig struct {
	APIBaseURL     string        `env:"PORTAL_API_URL"`
	DBPath         string        `env:"PORTAL_DB_PATH"`
	RequestTimeout time.Duration `env:"PORTAL_TIMEOUT"`
	LogLevel       string        `env:"PORTAL_LOG_LEVEL"`
	ExportDir      string        `env:"PORTAL_EXPORT_DIR"`
}

func parseEnv(cfg *Config) {
	var ec envConfig
	if err := envconfig.Process(context.Background(), &ec); err != nil {
		panic(err)
	}

	if ec.APIBaseURL != "" {
		cfg.APIBaseURL = ec.APIBaseURL
	}
	if ec.DBPath != "" {
		cfg.DBPath = ec.DBPath
	}
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.LogLevel != "" {
		cfg.LogLevel = ec.LogLevel
	}
	if ec.ExportDir != "" {
		cfg.ExportDir = ec.ExportDir
	}
}
