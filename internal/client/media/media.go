// Package media uploads profile pictures to the external media host and
// returns the public URL to store on the account.
package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// MaxSize is the largest picture accepted for upload.
const MaxSize = 10 << 20

var (
	ErrUnsupportedType = errors.New("only JPEG and PNG images are accepted")
	ErrTooLarge        = errors.New("image is too large")
	ErrEmpty           = errors.New("image is empty")
)

// File is an image ready for upload. ContentType is sniffed from the data,
// never taken from the file name.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Uploader stores a picture and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, f *File) (string, error)
}

// NewFile wraps data and detects its content type.
func NewFile(name string, data []byte) *File {
	return &File{Name: name, ContentType: http.DetectContentType(data), Data: data}
}

// Open reads the image at path.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return NewFile(filepath.Base(path), data), nil
}

// Validate accepts non-empty JPEG and PNG images up to MaxSize.
func (f *File) Validate() error {
	switch {
	case len(f.Data) == 0:
		return ErrEmpty
	case len(f.Data) > MaxSize:
		return ErrTooLarge
	}
	switch f.ContentType {
	case "image/jpeg", "image/png":
		return nil
	}
	return fmt.Errorf("%w (got %s)", ErrUnsupportedType, f.ContentType)
}

// Ext is the canonical file extension for the content type.
func (f *File) Ext() string {
	switch f.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	return ""
}
