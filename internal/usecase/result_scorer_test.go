package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopbot/backend/internal/domain"
)

func TestScore_FixedSimilarityPerTier(t *testing.T) {
	s := NewResultScorer()

	testCases := []struct {
		tier domain.Tier
		want float64
	}{
		{tier: domain.TierExact, want: 0.8},
		{tier: domain.TierKeyword, want: 0.7},
		{tier: domain.TierDefault, want: 0.5},
		{tier: domain.TierVisual, want: 0.8},
	}

	for _, tc := range testCases {
		t.Run(string(tc.tier), func(t *testing.T) {
			scored := s.Score(testCatalog(), tc.tier)

			assert.Len(t, scored, len(testCatalog()))
			for _, p := range scored {
				assert.Equal(t, tc.want, p.Similarity)
				assert.Equal(t, tc.tier, p.Tier)
			}
		})
	}
}

func TestScore_PreservesOrder(t *testing.T) {
	scored := NewResultScorer().Score(testCatalog(), domain.TierKeyword)

	for i, p := range testCatalog() {
		assert.Equal(t, p.ID, scored[i].ID)
	}
}

func TestScore_Empty(t *testing.T) {
	scored := NewResultScorer().Score(nil, domain.TierNone)

	assert.NotNil(t, scored)
	assert.Empty(t, scored)
}
