// Package s3 archives rendered documents in an S3 compatible bucket.
package s3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"docflow/internal/config"
	"docflow/internal/port"
)

const defaultPresignSeconds = 3600

// Store implements port.ObjectStorage on top of the AWS SDK. An empty bucket in
// a call falls back to the configured bucket.
type Store struct {
	presigner     *s3.PresignClient
	uploader      *manager.Uploader
	bucket        string
	presignExpiry int64
}

// NewStore creates an S3 backed ObjectStorage. Endpoint switches to path-style
// addressing for MinIO and other compatible servers.
func NewStore(ctx context.Context, cfg *config.S3Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = defaultPresignSeconds
	}
	return &Store{
		presigner:     s3.NewPresignClient(client),
		uploader:      manager.NewUploader(client),
		bucket:        cfg.Bucket,
		presignExpiry: expiry,
	}, nil
}

var _ port.ObjectStorage = (*Store)(nil)

func (s *Store) bucketOr(bucket string) string {
	if bucket == "" {
		return s.bucket
	}
	return bucket
}

func (s *Store) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	put := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketOr(input.Bucket)),
		Key:         aws.String(input.Key),
		Body:        input.Body,
		ContentType: aws.String(input.ContentType),
	}
	if input.Size > 0 {
		put.ContentLength = aws.Int64(input.Size)
	}
	result, err := s.uploader.Upload(ctx, put)
	if err != nil {
		return nil, fmt.Errorf("s3 upload %s: %w", input.Key, err)
	}
	return &port.UploadOutput{Location: result.Location, ETag: aws.ToString(result.ETag)}, nil
}

// GetPresignedURL returns a time limited download link. A non-positive expiry
// uses the configured default.
func (s *Store) GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	if expirySeconds <= 0 {
		expirySeconds = s.presignExpiry
	}
	result, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketOr(bucket)),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(time.Duration(expirySeconds)*time.Second))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s: %w", key, err)
	}
	return result.URL, nil
}
