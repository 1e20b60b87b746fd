package catalog

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/shopbot/backend/internal/domain"
)

// MinioConfig locates a catalog object in MinIO or any S3-compatible store
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
	UseSSL    bool
}

// MinioSource reads the catalog JSON from an object
type MinioSource struct {
	client *minio.Client
	bucket string
	key    string
}

// NewMinioSource creates a MinIO client for cfg.Endpoint
func NewMinioSource(cfg MinioConfig) (*MinioSource, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return NewMinioSourceWithClient(client, cfg.Bucket, cfg.Key), nil
}

// NewMinioSourceWithClient wraps an existing client
func NewMinioSourceWithClient(client *minio.Client, bucket, key string) *MinioSource {
	return &MinioSource{client: client, bucket: bucket, key: key}
}

// Name identifies the source in logs
func (s *MinioSource) Name() string {
	return fmt.Sprintf("minio:%s/%s", s.bucket, s.key)
}

// Fetch downloads and decodes the catalog object
func (s *MinioSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrapError(err)
	}
	defer obj.Close()

	// GetObject is lazy; errors such as NoSuchKey surface on Stat or the first read.
	if _, err := obj.Stat(); err != nil {
		return nil, s.wrapError(err)
	}

	return decodeProducts(obj)
}

func (s *MinioSource) wrapError(err error) error {
	errResp := minio.ToErrorResponse(err)
	if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" || errResp.Code == "NotFound" {
		return fmt.Errorf("%w: %s not found", domain.ErrCatalogUnavailable, s.Name())
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrCatalogUnavailable, s.Name(), err)
}
