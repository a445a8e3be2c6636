package s3infra

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/publication-admin/internal/config"
)

// objectPutter is the part of the S3 API the media store uses.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store puts user media into one bucket of an S3-compatible storage and
// builds the public URLs the frontend loads it from.
type Store struct {
	client  objectPutter
	bucket  string
	baseURL string
}

// NewClient creates an S3 client for the media storage. The endpoint is
// always overridden with path-style addressing, since media storage is an
// S3-compatible service (MinIO in dev) reachable at MEDIA_STORAGE_URL.
func NewClient(ctx context.Context, cfg config.MediaStorage) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config for S3: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.URL)
		o.UsePathStyle = true
	}), nil
}

// NewStore creates a Store with the given S3 client, bucket and public media URL.
func NewStore(client objectPutter, bucket, baseURL string) *Store {
	return &Store{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload streams a file to the bucket under key.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put object: %w", err)
	}
	return nil
}

// URL returns the public URL of key in the media bucket.
func (s *Store) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, strings.TrimLeft(key, "/"))
}

// URLForPath converts a storage path reported by the ML services into a
// public URL. "s3://bucket/key" paths keep their own bucket; anything else
// is treated as a key in the media bucket.
func (s *Store) URLForPath(path string) string {
	if rest, ok := strings.CutPrefix(path, "s3://"); ok {
		return fmt.Sprintf("%s/%s", s.baseURL, rest)
	}
	return s.URL(path)
}
