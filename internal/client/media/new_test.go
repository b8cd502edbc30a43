package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/medportal/internal/client/config"
)

func TestFromConfig(t *testing.T) {
	var cfg config.Config
	cfg.LoadDefaults()

	u, err := FromConfig(context.Background(), &cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, u, "uploads disabled by default")

	cfg.MediaBackend = config.MediaBackendHTTP
	cfg.MediaUploadURL = "https://media.example/upload"
	cfg.MediaUploadPreset = "unsigned"
	u, err = FromConfig(context.Background(), &cfg, nil)
	require.NoError(t, err)
	hu, ok := u.(*HTTPUploader)
	require.True(t, ok)
	assert.Equal(t, "https://media.example/upload", hu.URL)
	assert.Equal(t, "unsigned", hu.Preset)
}
