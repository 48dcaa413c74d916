package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const objectPrefix = "listings"

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Storage uploads listing images to a MinIO or S3 compatible bucket.
type Storage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewStorage creates the client and makes sure the bucket exists.
func NewStorage(ctx context.Context, opts Options, log *logger.Logger) (*Storage, error) {
	log.Info("Initializing S3 MinIO storage",
		zap.String("endpoint", opts.Endpoint), zap.String("bucket", opts.Bucket), zap.Bool("use_ssl", opts.UseSSL))

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", opts.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to make bucket %s: %w", opts.Bucket, err)
		}
		log.Info("S3 bucket created", zap.String("bucket", opts.Bucket))
	}

	return &Storage{client: client, bucket: opts.Bucket, logger: log.Named("S3Storage")}, nil
}

// Upload stores data under a fresh object key and returns its public URL.
func (s *Storage) Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	key := objectKey(fileName)

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"original-filename": filepath.Base(fileName)},
	})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("bucket", s.bucket), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}

	s.logger.Info("Image uploaded", zap.String("key", info.Key), zap.Int64("size", info.Size))
	return objectURL(s.client.EndpointURL().String(), s.bucket, key), nil
}

// objectKey keeps the lower-cased file extension and replaces the name with a UUID.
func objectKey(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return path.Join(objectPrefix, uuid.NewString()+ext)
}

func objectURL(endpoint, bucket, key string) string {
	return strings.TrimSuffix(endpoint, "/") + "/" + bucket + "/" + key
}
