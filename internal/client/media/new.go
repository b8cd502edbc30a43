package media

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/medportal/internal/client/config"
)

// FromConfig builds the uploader selected by cfg.MediaBackend. It returns
// nil when uploads are disabled.
func FromConfig(ctx context.Context, cfg *config.Config, client *http.Client) (Uploader, error) {
	switch cfg.MediaBackend {
	case config.MediaBackendHTTP:
		return &HTTPUploader{
			URL:       cfg.MediaUploadURL,
			CloudName: cfg.MediaCloudName,
			Preset:    cfg.MediaUploadPreset,
			Client:    client,
		}, nil
	case config.MediaBackendS3:
		u, err := NewS3Uploader(ctx, S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return u, nil
	}
	return nil, nil
}
