package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "MEDPORTAL_"

// parseEnv overlays cfg with MEDPORTAL_* variables. A .env file in the
// working directory is loaded first; it never overrides variables that are
// already set.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) error {
	_ = godotenv.Load()

	get := func(key string) (string, bool) {
		v, ok := lookup(envPrefix + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	strs := map[string]*string{
		"API_BASE_URL":        &cfg.APIBaseURL,
		"MEDIA_BACKEND":       &cfg.MediaBackend,
		"MEDIA_UPLOAD_URL":    &cfg.MediaUploadURL,
		"MEDIA_CLOUD_NAME":    &cfg.MediaCloudName,
		"MEDIA_UPLOAD_PRESET": &cfg.MediaUploadPreset,
		"S3_BUCKET":           &cfg.S3Bucket,
		"S3_REGION":           &cfg.S3Region,
		"S3_ENDPOINT":         &cfg.S3Endpoint,
		"S3_PUBLIC_BASE_URL":  &cfg.S3PublicBaseURL,
		"S3_ACCESS_KEY":       &cfg.S3AccessKey,
		"S3_SECRET_KEY":       &cfg.S3SecretKey,
		"AUTH_POLICY":         &cfg.AuthPolicy,
		"STATE_PATH":          &cfg.StatePath,
		"LOG_LEVEL":           &cfg.LogLevel,
		"LOG_BACKEND":         &cfg.LogBackend,
	}
	for key, dst := range strs {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"REQUEST_TIMEOUT":       &cfg.RequestTimeout,
		"ONLINE_CHECK_INTERVAL": &cfg.OnlineCheckInterval,
	}
	for key, dst := range durations {
		v, ok := get(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
		}
		*dst = d
	}

	if v, ok := get("RATE_LIMIT"); ok {
		rl, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sRATE_LIMIT: %w", envPrefix, err)
		}
		cfg.RateLimit = rl
	}

	return nil
}
