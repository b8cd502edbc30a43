package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.APIBaseURL)
	assert.Equal(t, AuthPolicyFailFast, c.AuthPolicy)
	assert.Equal(t, MediaBackendNone, c.MediaBackend)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "relative base url", mutate: func(c *Config) { c.APIBaseURL = "/api" }, wantErr: "api_base_url"},
		{name: "unknown policy", mutate: func(c *Config) { c.AuthPolicy = "maybe" }, wantErr: "auth_policy"},
		{name: "http media without url", mutate: func(c *Config) { c.MediaBackend = MediaBackendHTTP }, wantErr: "media_upload_url"},
		{name: "s3 media without bucket", mutate: func(c *Config) { c.MediaBackend = MediaBackendS3 }, wantErr: "s3_bucket"},
		{name: "unknown media backend", mutate: func(c *Config) { c.MediaBackend = "ftp" }, wantErr: "media_backend"},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = -time.Second }, wantErr: "request_timeout"},
		{name: "negative rate limit", mutate: func(c *Config) { c.RateLimit = -1 }, wantErr: "rate_limit"},
		{name: "valid s3", mutate: func(c *Config) { c.MediaBackend = MediaBackendS3; c.S3Bucket = "avatars" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Setenv("MEDPORTAL_API_BASE_URL", "http://env.example:8000")
	t.Setenv("MEDPORTAL_LOG_LEVEL", "debug")
	t.Setenv("MEDPORTAL_STATE_PATH", "env.db")

	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"api_base_url": "http://json.example:8000",
		"state_path": "json.db"
	}`), 0o600))

	cfg, err := LoadConfig([]string{"-c", path, "-s", "flag.db"})
	require.NoError(t, err)

	want := defaults()
	want.APIBaseURL = "http://json.example:8000"
	want.LogLevel = "debug"
	want.StatePath = "flag.db"

	assert.Empty(t, cmp.Diff(&want, cfg))
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig([]string{"-p", "sometimes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth_policy")
}
