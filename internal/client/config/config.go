// Package config holds runtime settings for the portal CLI.
//
// Sources are layered: defaults, then a JSON file (-c/-config), then
// environment variables, then command-line flags. Later sources win.
package config

import "time"

// Config holds runtime settings for the portal CLI.
type Config struct {
	// APIBaseURL is the backend's base URL, e.g. "http://127.0.0.1:8000".
	APIBaseURL string
	// DBPath is the sqlite file the credential is persisted in.
	DBPath string
	// RequestTimeout bounds each user-triggered command, covering every
	// request the command fans out.
	RequestTimeout time.Duration
	// LogLevel is the minimum log level: trace, debug, info, warn, error.
	LogLevel string
	// ExportDir is where generated prescription documents are written.
	ExportDir string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.DBPath = "portal.db"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.ExportDir = "."
}

// LoadConfig constructs a Config by applying all sources in order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
