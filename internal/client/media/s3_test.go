package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if in.Body != nil {
		f.body, _ = io.ReadAll(in.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func fixedNow() time.Time { return time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC) }

func TestS3Uploader_Upload(t *testing.T) {
	tests := []struct {
		name       string
		cfg        S3Config
		wantPrefix string
	}{
		{
			name:       "aws virtual host url",
			cfg:        S3Config{Bucket: "avatars", Region: "eu-west-1"},
			wantPrefix: "https://avatars.s3.eu-west-1.amazonaws.com/profile-pictures/2025/03/07/",
		},
		{
			name:       "custom endpoint",
			cfg:        S3Config{Bucket: "avatars", Region: "us-east-1", Endpoint: "http://127.0.0.1:9000/"},
			wantPrefix: "http://127.0.0.1:9000/avatars/profile-pictures/2025/03/07/",
		},
		{
			name:       "public base wins",
			cfg:        S3Config{Bucket: "avatars", Endpoint: "http://minio:9000", PublicBaseURL: "https://img.clinic.example/"},
			wantPrefix: "https://img.clinic.example/profile-pictures/2025/03/07/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePutter{}
			u := &S3Uploader{client: p, cfg: tt.cfg, now: fixedNow}

			got, err := u.Upload(context.Background(), NewFile("me.png", pngData))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(got, tt.wantPrefix), got)
			assert.True(t, strings.HasSuffix(got, ".png"), got)

			require.NotNil(t, p.in)
			assert.Equal(t, "avatars", aws.ToString(p.in.Bucket))
			assert.Equal(t, "image/png", aws.ToString(p.in.ContentType))
			assert.Equal(t, int64(len(pngData)), aws.ToInt64(p.in.ContentLength))
			assert.Equal(t, pngData, p.body)
		})
	}
}

func TestS3Uploader_Errors(t *testing.T) {
	p := &fakePutter{err: errors.New("access denied")}
	u := &S3Uploader{client: p, cfg: S3Config{Bucket: "b"}, now: fixedNow}

	_, err := u.Upload(context.Background(), NewFile("me.jpg", jpegData))
	assert.ErrorContains(t, err, "put object: access denied")

	p.in = nil
	_, err = u.Upload(context.Background(), NewFile("me.gif", []byte("GIF89a....")))
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Nil(t, p.in, "invalid files are not sent")
}

func TestNewS3Uploader_AppliesConfig(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	var lo awsconfig.LoadOptions
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		return aws.Config{Region: lo.Region, Credentials: lo.Credentials}, nil
	}
	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return s3.NewFromConfig(cfg, optFns...)
	}

	u, err := NewS3Uploader(context.Background(), S3Config{
		Bucket: "avatars", Region: "us-east-1", Endpoint: "http://127.0.0.1:9000",
		AccessKey: "minioadmin", SecretKey: "minioadmin",
	})
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.Equal(t, "us-east-1", lo.Region)
	require.NotNil(t, lo.Credentials)
	creds, err := lo.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "minioadmin", creds.AccessKeyID)

	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Uploader_LoadError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no profile")
	}

	_, err := NewS3Uploader(context.Background(), S3Config{Bucket: "b"})
	assert.ErrorContains(t, err, "load aws config")
}
