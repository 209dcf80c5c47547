package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	cfg "github.com/avantaimpex/console-backend/internal/config"
)

// S3MediaRepository implements MediaRepository using AWS S3 (or any
// S3-compatible host via an endpoint override)
type S3MediaRepository struct {
	client    *s3.Client
	bucket    string
	publicURL string // base URL objects are served from, no trailing slash
}

// NewS3MediaRepository creates a new S3 media repository
func NewS3MediaRepository(ctx context.Context, s3cfg cfg.S3Config) (*S3MediaRepository, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(s3cfg.Region),
	}

	if s3cfg.AccessKeyID != "" && s3cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				s3cfg.AccessKeyID,
				s3cfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Endpoint override + path style for MinIO/LocalStack local dev
	var client *s3.Client
	if s3cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s3cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	repo := &S3MediaRepository{
		client:    client,
		bucket:    s3cfg.Bucket,
		publicURL: publicBaseURL(s3cfg),
	}

	if err := repo.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return repo, nil
}

// publicBaseURL resolves where stored objects are publicly served from. An
// explicit PublicBaseURL wins (CDN or custom domain); otherwise it is derived
// from the endpoint override or the standard AWS virtual-hosted form.
func publicBaseURL(s3cfg cfg.S3Config) string {
	if s3cfg.PublicBaseURL != "" {
		return strings.TrimRight(s3cfg.PublicBaseURL, "/")
	}
	if s3cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s3cfg.Endpoint, "/"), s3cfg.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s3cfg.Bucket, s3cfg.Region)
}

// ensureBucket creates the bucket if it doesn't exist
func (r *S3MediaRepository) ensureBucket(ctx context.Context) error {
	_, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(r.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		var noSuchBucket *types.NoSuchBucket
		if !errors.As(err, &noSuchBucket) {
			return fmt.Errorf("failed to check bucket (may be permission denied): %w", err)
		}
	}

	_, err = r.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(r.bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

// Upload stores the object and returns its stable public URL
func (r *S3MediaRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	var body io.Reader = data
	if size < 0 {
		buf, err := io.ReadAll(data)
		if err != nil {
			return "", fmt.Errorf("failed to read data: %w", err)
		}
		size = int64(len(buf))
		body = bytes.NewReader(buf)
	}

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(objectPath),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return r.URL(objectPath), nil
}

// Delete removes an object
func (r *S3MediaRepository) Delete(ctx context.Context, objectPath string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(objectPath),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URL returns the stable public URL for an object path
func (r *S3MediaRepository) URL(objectPath string) string {
	return r.publicURL + "/" + objectPath
}

var _ MediaRepository = (*S3MediaRepository)(nil)
