package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/medportal/internal/flagx"
	"github.com/dmitrijs2005/medportal/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations go through
// timex.Duration so "30s" and integer nanoseconds both work. Empty fields
// leave the current value alone.
type JsonConfig struct {
	APIBaseURL          string          `json:"api_base_url"`
	MediaBackend        string          `json:"media_backend"`
	MediaUploadURL      string          `json:"media_upload_url"`
	MediaCloudName      string          `json:"media_cloud_name"`
	MediaUploadPreset   string          `json:"media_upload_preset"`
	S3Bucket            string          `json:"s3_bucket"`
	S3Region            string          `json:"s3_region"`
	S3Endpoint          string          `json:"s3_endpoint"`
	S3PublicBaseURL     string          `json:"s3_public_base_url"`
	S3AccessKey         string          `json:"s3_access_key"`
	S3SecretKey         string          `json:"s3_secret_key"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	AuthPolicy          string          `json:"auth_policy"`
	StatePath           string          `json:"state_path"`
	LogLevel            string          `json:"log_level"`
	LogBackend          string          `json:"log_backend"`
	RateLimit           *float64        `json:"rate_limit"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	jc.apply(cfg)
	return nil
}

func (jc JsonConfig) apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.APIBaseURL, jc.APIBaseURL)
	set(&cfg.MediaBackend, jc.MediaBackend)
	set(&cfg.MediaUploadURL, jc.MediaUploadURL)
	set(&cfg.MediaCloudName, jc.MediaCloudName)
	set(&cfg.MediaUploadPreset, jc.MediaUploadPreset)
	set(&cfg.S3Bucket, jc.S3Bucket)
	set(&cfg.S3Region, jc.S3Region)
	set(&cfg.S3Endpoint, jc.S3Endpoint)
	set(&cfg.S3PublicBaseURL, jc.S3PublicBaseURL)
	set(&cfg.S3AccessKey, jc.S3AccessKey)
	set(&cfg.S3SecretKey, jc.S3SecretKey)
	set(&cfg.AuthPolicy, jc.AuthPolicy)
	set(&cfg.StatePath, jc.StatePath)
	set(&cfg.LogLevel, jc.LogLevel)
	set(&cfg.LogBackend, jc.LogBackend)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RateLimit != nil {
		cfg.RateLimit = *jc.RateLimit
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}
