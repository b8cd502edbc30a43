package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	AuthPolicyFailFast      = "fail-fast"
	AuthPolicySendAnonymous = "send-anonymous"

	MediaBackendHTTP = "http"
	MediaBackendS3   = "s3"
	MediaBackendNone = "none"
)

// Config holds runtime settings for the medportal client. It is read-only
// once LoadConfig returns.
type Config struct {
	APIBaseURL string

	MediaBackend      string
	MediaUploadURL    string
	MediaCloudName    string
	MediaUploadPreset string

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3PublicBaseURL string
	S3AccessKey     string
	S3SecretKey     string

	RequestTimeout      time.Duration
	AuthPolicy          string
	StatePath           string
	LogLevel            string
	LogBackend          string
	RateLimit           float64
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with values suitable for a local backend.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.MediaBackend = MediaBackendNone
	c.S3Region = "us-east-1"
	c.RequestTimeout = 30 * time.Second
	c.AuthPolicy = AuthPolicyFailFast
	c.StatePath = "medportal.db"
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.OnlineCheckInterval = 3 * time.Second
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url %q must be an absolute URL", c.APIBaseURL)
	}

	switch c.AuthPolicy {
	case AuthPolicyFailFast, AuthPolicySendAnonymous:
	default:
		return fmt.Errorf("unknown auth_policy %q", c.AuthPolicy)
	}

	switch c.MediaBackend {
	case MediaBackendNone:
	case MediaBackendHTTP:
		if strings.TrimSpace(c.MediaUploadURL) == "" {
			return fmt.Errorf("media_upload_url is required for the http media backend")
		}
	case MediaBackendS3:
		if strings.TrimSpace(c.S3Bucket) == "" {
			return fmt.Errorf("s3_bucket is required for the s3 media backend")
		}
	default:
		return fmt.Errorf("unknown media_backend %q", c.MediaBackend)
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative")
	}
	if c.OnlineCheckInterval < 0 {
		return fmt.Errorf("online_check_interval must not be negative")
	}

	return nil
}

// LoadConfig builds a Config from defaults, then the environment (with an
// optional .env file), then the JSON file named by -c/-config, then the
// remaining flags. Later sources win. args excludes the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
