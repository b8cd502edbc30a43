package media

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngData  = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	jpegData = append([]byte{0xff, 0xd8, 0xff, 0xe0}, bytes.Repeat([]byte{0}, 32)...)
)

func TestFile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		ext     string
		wantErr error
	}{
		{name: "png", data: pngData, ext: ".png"},
		{name: "jpeg", data: jpegData, ext: ".jpg"},
		{name: "gif", data: []byte("GIF89a......"), wantErr: ErrUnsupportedType},
		{name: "text", data: []byte("hello"), wantErr: ErrUnsupportedType},
		{name: "empty", data: nil, wantErr: ErrEmpty},
		{name: "too large", data: append(append([]byte{}, pngData...), make([]byte, MaxSize)...), wantErr: ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFile("pic", tt.data)
			err := f.Validate()
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, f.Ext())
		})
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.bin")
	require.NoError(t, os.WriteFile(path, jpegData, 0o600))

	f, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "avatar.bin", f.Name)
	assert.Equal(t, "image/jpeg", f.ContentType, "type comes from the bytes, not the name")

	_, err = Open(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
