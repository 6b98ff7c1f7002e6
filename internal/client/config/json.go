package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ehealth/portal/internal/flagx"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given as strings like "15s".
type jsonConfig struct {
	APIBaseURL     string `json:"api_base_url"`
	DBPath         string `json:"db_path"`
	RequestTimeout string `json:"request_timeout"`
	LogLevel       string `json:"log_level"`
	ExportDir      string `json:"export_dir"`
}

// parseJSON overlays cfg with values from the JSON file given via -c or
// -config. Absent file path means no JSON layer. Read or parse errors panic;
// a config file that exists but cannot be used is a startup defect.
func parseJSON(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
	if jc.RequestTimeout != "" {
		d, err := time.ParseDuration(jc.RequestTimeout)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.ExportDir != "" {
		cfg.ExportDir = jc.ExportDir
	}
}
