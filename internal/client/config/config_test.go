package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"portal"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t)

	cfg := LoadConfig()
	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIBaseURL)
	assert.Equal(t, "portal.db", cfg.DBPath)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ".", cfg.ExportDir)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	withArgs(t, "-a", "http://api.example.org", "-t", "30")

	cfg := LoadConfig()
	assert.Equal(t, "http://api.example.org", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "portal.db", cfg.DBPath, "untouched fields keep defaults")
}

func TestLoadConfig_JSONLayer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.json")
	data, err := json.Marshal(jsonConfig{
		APIBaseURL:     "http://json.example.org",
		RequestTimeout: "45s",
		LogLevel:       "debug",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	withArgs(t, "-c", path)

	cfg := LoadConfig()
	assert.Equal(t, "http://json.example.org", cfg.APIBaseURL)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_FlagsBeatJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_base_url":"http://json.example.org"}`), 0o600))

	withArgs(t, "-c", path, "-a", "http://flag.example.org")

	cfg := LoadConfig()
	assert.Equal(t, "http://flag.example.org", cfg.APIBaseURL)
}

func TestLoadConfig_EnvLayer(t *testing.T) {
	withArgs(t)
	t.Setenv("PORTAL_API_URL", "http://env.example.org")
	t.Setenv("PORTAL_LOG_LEVEL", "warn")

	cfg := LoadConfig()
	assert.Equal(t, "http://env.example.org", cfg.APIBaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfig_FlagsBeatEnv(t *testing.T) {
	withArgs(t, "-a", "http://flag.example.org")
	t.Setenv("PORTAL_API_URL", "http://env.example.org")

	cfg := LoadConfig()
	assert.Equal(t, "http://flag.example.org", cfg.APIBaseURL)
}
