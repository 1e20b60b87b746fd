package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopbot/backend/internal/domain"
)

// Source reads the full product catalog
type Source interface {
	Fetch(ctx context.Context) ([]domain.Product, error)
	Name() string
}

// FileSource reads a JSON array of products from the local filesystem
type FileSource struct {
	path string
}

// NewFileSource creates a source for the JSON catalog at path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name identifies the source in logs
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Fetch reads and decodes the catalog file
func (s *FileSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrCatalogUnavailable, s.path, err)
	}

	return decodeProducts(bytes.NewReader(data))
}

// decodeProducts accepts either a bare JSON array or an object with a "products" array.
// Missing product fields decode to their zero values.
func decodeProducts(r io.Reader) ([]domain.Product, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty catalog document", domain.ErrCatalogUnavailable)
	}

	var products []domain.Product
	if trimmed[0] == '{' {
		var wrapper struct {
			Products []domain.Product `json:"products"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("%w: decode catalog: %v", domain.ErrCatalogUnavailable, err)
		}
		products = wrapper.Products
	} else if err := json.Unmarshal(trimmed, &products); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %v", domain.ErrCatalogUnavailable, err)
	}

	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}
