package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/shopbot/backend/internal/domain"
)

// imageAnalysisSchema constrains vision output to the domain.ImageAnalysis shape
func imageAnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"productType": {
				Type:        genai.TypeString,
				Description: "Loại sản phẩm, ví dụ: điện thoại, laptop, tai nghe",
			},
			"brand": {
				Type:        genai.TypeString,
				Description: "Thương hiệu nhận diện được, rỗng nếu không rõ",
			},
			"color": {
				Type: genai.TypeString,
			},
			"features": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"description": {
				Type: genai.TypeString,
			},
		},
		Required:         []string{"productType"},
		PropertyOrdering: []string{"productType", "brand", "color", "features", "description"},
	}
}

// decodeImageAnalysis parses model output strictly and validates it
func decodeImageAnalysis(text string) (*domain.ImageAnalysis, error) {
	raw := stripCodeFence(text)

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()

	var analysis domain.ImageAnalysis
	if err := dec.Decode(&analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidAnalysis, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", domain.ErrInvalidAnalysis)
	}
	if err := analysis.Validate(); err != nil {
		return nil, err
	}

	analysis.ProductType = strings.TrimSpace(analysis.ProductType)
	analysis.Brand = strings.TrimSpace(analysis.Brand)
	return &analysis, nil
}

// stripCodeFence removes a surrounding ```json fence some models add despite the MIME type
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
