package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Uploader stores an export artifact under a key.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader) error
}

// s3Uploader implements Uploader against an AWS S3 bucket.
type s3Uploader struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Uploader creates a new S3-based uploader.
func NewS3Uploader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Uploader, error) {
	logger = logger.With().Str("component", "s3-uploader").Logger()

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 uploader initialised")

	return &s3Uploader{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

func (u *s3Uploader) Upload(ctx context.Context, key string, body io.Reader) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		u.logger.Error().
			Err(err).
			Str("bucket", u.bucket).
			Str("key", key).
			Msg("failed to put object to S3")
		return fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", u.bucket, key, err)
	}

	u.logger.Info().
		Str("bucket", u.bucket).
		Str("key", key).
		Msg("artifact uploaded to S3")

	return nil
}

// fileUploader implements Uploader against a local directory. Used when no
// S3 bucket is configured.
type fileUploader struct {
	dir    string
	logger zerolog.Logger
}

// NewFileUploader creates an uploader that writes artifacts under dir.
func NewFileUploader(dir string, logger zerolog.Logger) Uploader {
	return &fileUploader{
		dir:    dir,
		logger: logger.With().Str("component", "file-uploader").Logger(),
	}
}

func (u *fileUploader) Upload(ctx context.Context, key string, body io.Reader) error {
	path := filepath.Join(u.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("failed to write archive file %s: %w", path, err)
	}

	u.logger.Info().
		Str("path", path).
		Msg("artifact written")

	return nil
}
