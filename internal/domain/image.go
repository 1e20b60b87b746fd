package domain

import (
	"fmt"
	"strings"
)

// ImageAnalysis is the structured description returned by the vision collaborator
type ImageAnalysis struct {
	ProductType string   `json:"productType"`
	Brand       string   `json:"brand"`
	Color       string   `json:"color"`
	Features    []string `json:"features"`
	Description string   `json:"description"`
}

// Validate rejects analyses that cannot drive a catalog search.
// Only productType is mandatory; the remaining fields are descriptive.
func (a *ImageAnalysis) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: empty analysis", ErrInvalidAnalysis)
	}
	if strings.TrimSpace(a.ProductType) == "" {
		return fmt.Errorf("%w: productType is required", ErrInvalidAnalysis)
	}
	if a.Features == nil {
		a.Features = []string{}
	}
	return nil
}
