package usecase

import (
	"maps"

	"github.com/shopbot/backend/internal/domain"
)

// Fixed confidence per tier. These are coarse indicators, not relevance scores.
const (
	similarityExact   = 0.8
	similarityKeyword = 0.7
	similarityDefault = 0.5
	similarityVisual  = 0.8
)

var tierSimilarity = map[domain.Tier]float64{
	domain.TierExact:   similarityExact,
	domain.TierKeyword: similarityKeyword,
	domain.TierDefault: similarityDefault,
	domain.TierVisual:  similarityVisual,
}

// ResultScorer tags products with the confidence of the tier that produced them
type ResultScorer struct{}

// NewResultScorer creates a new result scorer
func NewResultScorer() *ResultScorer {
	return &ResultScorer{}
}

// Score returns copies of products in their original order, each carrying the tier similarity
func (s *ResultScorer) Score(products []domain.Product, tier domain.Tier) []domain.ScoredProduct {
	similarity := tierSimilarity[tier]

	scored := make([]domain.ScoredProduct, len(products))
	for i, p := range products {
		p.Prices = maps.Clone(p.Prices)
		scored[i] = domain.ScoredProduct{
			Product:    p,
			Similarity: similarity,
			Tier:       tier,
		}
	}
	return scored
}
