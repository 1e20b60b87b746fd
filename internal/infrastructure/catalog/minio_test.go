package catalog

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbot/backend/internal/domain"
)

func TestMinioSource_Name(t *testing.T) {
	source, err := NewMinioSource(MinioConfig{
		Endpoint: "localhost:9000",
		Bucket:   "catalogs",
		Key:      "products.json",
	})
	require.NoError(t, err)
	assert.Equal(t, "minio:catalogs/products.json", source.Name())
}

func TestMinioSource_WrapError(t *testing.T) {
	source := NewMinioSourceWithClient(nil, "catalogs", "products.json")

	notFound := source.wrapError(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})
	assert.ErrorIs(t, notFound, domain.ErrCatalogUnavailable)
	assert.Contains(t, notFound.Error(), "not found")

	other := source.wrapError(errors.New("connection refused"))
	assert.ErrorIs(t, other, domain.ErrCatalogUnavailable)
	assert.Contains(t, other.Error(), "connection refused")
}

// TestMinioSource_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioSource_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	bucket := "test-shopbot"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	data := []byte(`[{"name":"Tai nghe Sony","category":"tai nghe","prices":{"250":2500000}}]`)
	_, err = client.PutObject(ctx, bucket, "catalog.json", bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	require.NoError(t, err)
	defer client.RemoveObject(ctx, bucket, "catalog.json", minio.RemoveObjectOptions{})

	products, err := NewMinioSourceWithClient(client, bucket, "catalog.json").Fetch(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Tai nghe Sony", products[0].Name)
	assert.Equal(t, int64(2_500_000), products[0].ReferencePrice("250"))

	_, err = NewMinioSourceWithClient(client, bucket, "missing.json").Fetch(ctx)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}
