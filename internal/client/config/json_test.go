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

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestParseJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"api_base_url":          "https://clinic.example.com/api",
		"request_timeout":       "10s",
		"online_check_interval": 2000000000,
		"rate_limit":            0,
		"media_backend":         "http",
		"media_upload_url":      "https://media.example.com/upload",
	})

	t.Run("loads from -config", func(t *testing.T) {
		cfg := defaults()
		cfg.RateLimit = 5
		require.NoError(t, parseJSON(&cfg, []string{"-config", path}))

		assert.Equal(t, "https://clinic.example.com/api", cfg.APIBaseURL)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 2*time.Second, cfg.OnlineCheckInterval)
		assert.Zero(t, cfg.RateLimit, "explicit zero overrides")
		assert.Equal(t, MediaBackendHTTP, cfg.MediaBackend)
		assert.Equal(t, "slog", cfg.LogBackend, "absent keys keep the current value")
	})

	t.Run("no flag means no changes", func(t *testing.T) {
		cfg := defaults()
		require.NoError(t, parseJSON(&cfg, []string{"-a", "http://other:1"}))
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := defaults()
		err := parseJSON(&cfg, []string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		require.Error(t, err)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := defaults()
		require.Error(t, parseJSON(&cfg, []string{"-c", bad}))
	})
}
