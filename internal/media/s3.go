// Copyright (c) 2026 Vidora. All rights reserved.

package media

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vidora/vidora/internal/platform/config"
	"github.com/vidora/vidora/pkg/uuid"
)

// objectClient is the subset of the S3 API the gateway needs. Narrowing the
// dependency keeps the storage testable without a live bucket.
type objectClient interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage implements [Storage] against any S3-compatible object store
// (MinIO, Cloudflare R2, AWS S3).
type S3Storage struct {
	client  objectClient
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// NewS3Storage builds the production gateway from application config.
//
// # Parameters
//   - ctx: Context for credential resolution.
//   - cfg: Application configuration carrying bucket, region, endpoint and keys.
//   - logger: Structured logger for gateway events.
func NewS3Storage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("media: failed to load object storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.S3Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.S3Endpoint)
			// Path-style addressing is required by MinIO-style endpoints.
			options.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:  client,
		bucket:  cfg.S3Bucket,
		baseURL: strings.TrimSuffix(cfg.MediaBaseURL, "/"),
		logger:  logger,
	}, nil
}

/*
Upload pushes the spooled file to the bucket under a fresh UUIDv7 key.

Description: The object key keeps the original file extension so the public
URL stays self-describing; the content type is inferred from it.

Parameters:
  - ctx: context.Context
  - localPath: Path of the spooled upload

Returns:
  - string: Public URL ("<MediaBaseURL>/<key>")
  - error: I/O or gateway failures
*/
func (storage *S3Storage) Upload(ctx context.Context, localPath string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("media: failed to open spool file: %w", err)
	}
	defer func() { _ = file.Close() }()

	extension := strings.ToLower(filepath.Ext(localPath))
	key := "media/" + uuid.New() + extension

	contentType := mime.TypeByExtension(extension)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = storage.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(storage.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("media: object upload failed: %w", err)
	}

	url := storage.baseURL + "/" + key
	storage.logger.Info("media_uploaded",
		slog.String("key", key),
		slog.String("content_type", contentType),
	)

	return url, nil
}

/*
Delete removes a stored object by its public URL.

Description: Best-effort by contract — failures (including unparseable URLs)
are logged and swallowed so that replacing an avatar never fails because the
old asset could not be removed.
*/
func (storage *S3Storage) Delete(ctx context.Context, url string) {
	key, ok := storage.keyFromURL(url)
	if !ok {
		storage.logger.Warn("media_delete_skipped_foreign_url", slog.String("url", url))
		return
	}

	_, err := storage.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(storage.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		storage.logger.Warn("media_delete_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return
	}

	storage.logger.Info("media_deleted", slog.String("key", key))
}

// keyFromURL maps a public URL back to its object key. URLs outside our
// media base (seeded data, third-party avatars) are not ours to delete.
func (storage *S3Storage) keyFromURL(url string) (string, bool) {
	prefix := storage.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}

	key := strings.TrimPrefix(url, prefix)
	if key == "" {
		return "", false
	}

	return key, true
}
