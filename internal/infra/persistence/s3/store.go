// Package s3 persists the workspace snapshot as a single object in an
// S3-compatible bucket (AWS S3 or MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"mattercore/pkg/domain"
)

var _ domain.SnapshotStorage = (*Store)(nil)

// Store writes the snapshot to a fixed object key in one bucket.
type Store struct {
	client *s3.Client
	bucket string
	key    string
}

// Config holds explicit construction parameters (mostly for tests). For prod
// we rely primarily on environment variables.
type Config struct {
	Region    string
	Bucket    string
	Endpoint  string // optional; if set enables custom endpoint (e.g. MinIO)
	PathStyle bool
}

// Environment variables:
//
//	MATTERCORE_S3_BUCKET=<bucket> (required)
//	MATTERCORE_S3_REGION=<region> (default us-east-1)
//	MATTERCORE_S3_ENDPOINT=<url> (optional, for MinIO)
//	MATTERCORE_S3_PATH_STYLE=true|false (default false)
//	AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// New creates an S3 snapshot store from Config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Store{client: client, bucket: cfg.Bucket, key: domain.StorageKey + ".json"}, nil
}

// OpenFromEnv constructs an S3 store from process environment.
func OpenFromEnv(ctx context.Context) (*Store, error) {
	bucket := os.Getenv("MATTERCORE_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("MATTERCORE_S3_BUCKET required for s3 driver")
	}
	cfg := Config{
		Bucket:    bucket,
		Region:    os.Getenv("MATTERCORE_S3_REGION"),
		Endpoint:  os.Getenv("MATTERCORE_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("MATTERCORE_S3_PATH_STYLE"), "true"),
	}
	return New(ctx, cfg)
}

func (s *Store) Driver() string { return "s3" }

// Load fetches the snapshot object. A missing object is not an error.
func (s *Store) Load(ctx context.Context) ([]byte, bool, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &s.key,
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) || isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get snapshot object: %w", err)
	}
	defer func() { _ = out.Body.Close() }()
	payload, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot object: %w", err)
	}
	return payload, true, nil
}

// Save overwrites the snapshot object.
func (s *Store) Save(ctx context.Context, payload []byte) error {
	contentType := "application/json"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &s.key,
		Body:        bytes.NewReader(payload),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("put snapshot object: %w", err)
	}
	return nil
}

// isNotFound matches generic 404 smithy errors that some S3-compatible
// servers return instead of NoSuchKey.
func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "StatusCode: 404") || strings.Contains(msg, "NotFound")
}
