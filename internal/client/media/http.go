package media

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/medportal/internal/netx"
)

// HTTPUploader posts pictures to an unsigned-upload endpoint in the
// Cloudinary style: multipart fields file, upload_preset and cloud_name,
// answered with {"secure_url": ...}.
type HTTPUploader struct {
	URL       string
	CloudName string
	Preset    string
	Client    *http.Client
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

func (u *HTTPUploader) Upload(ctx context.Context, f *File) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	fields := map[string]string{"upload_preset": u.Preset}
	if u.CloudName != "" {
		fields["cloud_name"] = u.CloudName
	}

	body, err := netx.PostMultipart(ctx, u.Client, u.URL, fields, netx.FilePart{
		Field:       "file",
		Filename:    f.Name,
		ContentType: f.ContentType,
		Data:        f.Data,
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	switch {
	case resp.SecureURL != "":
		return resp.SecureURL, nil
	case resp.URL != "":
		return resp.URL, nil
	}
	return "", fmt.Errorf("upload response has no url")
}
