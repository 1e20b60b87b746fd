package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ReplyRequest is the input to the reply generator
type ReplyRequest struct {
	Query    string
	Criteria Criteria
	Products []ProductSummary
}

// TextGenerator produces a free-form reply for a query and its matches
type TextGenerator interface {
	GenerateReply(ctx context.Context, req ReplyRequest) (string, error)
}

// VisionAnalyzer turns an image into a structured product description
type VisionAnalyzer interface {
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*ImageAnalysis, error)
}

// CatalogRepository exposes the current read-only catalog snapshot
type CatalogRepository interface {
	Snapshot() []Product
}
