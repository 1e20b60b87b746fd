package usecase

import (
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shopbot/backend/internal/domain"
)

const (
	// DefaultMatchLimit caps every tier's result set
	DefaultMatchLimit = 10

	// DefaultPriceVariant is the price key read from Product.Prices
	DefaultPriceVariant = "250"

	// defaultSearchTerm is the keyword-tier term for price-only criteria
	defaultSearchTerm = "sản phẩm"

	// approxTolerance is the relative band accepted by the approx operator
	approxTolerance = 0.2
)

// MatchConfig holds configuration for the catalog matcher
type MatchConfig struct {
	PriceVariant string
	Limit        int
}

// CatalogMatcher applies criteria to a catalog snapshot using three tiers:
// exact filter, keyword fallback, then the first entries unconditionally.
// Criteria without a product type or price range go straight to the last tier.
type CatalogMatcher struct {
	priceVariant string
	limit        int
	logger       zerolog.Logger
}

// NewCatalogMatcher creates a new catalog matcher with the given configuration
func NewCatalogMatcher(config MatchConfig, logger zerolog.Logger) *CatalogMatcher {
	variant := config.PriceVariant
	if variant == "" {
		variant = DefaultPriceVariant
	}

	limit := config.Limit
	if limit <= 0 {
		limit = DefaultMatchLimit
	}

	return &CatalogMatcher{
		priceVariant: variant,
		limit:        limit,
		logger:       logger.With().Str("component", "matcher").Logger(),
	}
}

// Match returns at most limit products and the tier that produced them.
// The result is non-empty for any non-empty catalog. Catalog entries are not modified.
func (m *CatalogMatcher) Match(criteria domain.Criteria, catalog []domain.Product, limit int) domain.MatchResult {
	if limit <= 0 {
		limit = m.limit
	}
	if len(catalog) == 0 {
		return domain.MatchResult{Tier: domain.TierNone, Products: []domain.Product{}}
	}

	// Without a product type or price range there is nothing to search for.
	if !criteria.HasConstraint() {
		return m.defaultMatches(catalog, limit)
	}

	if products := m.exactMatches(criteria, catalog, limit); len(products) > 0 {
		m.logResult(domain.TierExact, len(products))
		return domain.MatchResult{Tier: domain.TierExact, Products: products}
	}

	term := defaultSearchTerm
	if criteria.ProductType != nil {
		term = *criteria.ProductType
	}
	if products := keywordMatches(catalog, limit, normalizeText(term)); len(products) > 0 {
		m.logResult(domain.TierKeyword, len(products))
		return domain.MatchResult{Tier: domain.TierKeyword, Products: products}
	}

	return m.defaultMatches(catalog, limit)
}

// defaultMatches returns the first limit catalog entries in catalog order
func (m *CatalogMatcher) defaultMatches(catalog []domain.Product, limit int) domain.MatchResult {
	n := min(limit, len(catalog))
	products := make([]domain.Product, n)
	copy(products, catalog[:n])
	m.logResult(domain.TierDefault, n)
	return domain.MatchResult{Tier: domain.TierDefault, Products: products}
}

// MatchImage keeps products whose name or category contains the analyzed product
// type, or whose description contains the analyzed brand. Blank terms are ignored.
// There is no default tier here: an empty result stays empty.
func (m *CatalogMatcher) MatchImage(analysis domain.ImageAnalysis, catalog []domain.Product, limit int) domain.MatchResult {
	if limit <= 0 {
		limit = m.limit
	}

	productType := normalizeText(strings.TrimSpace(analysis.ProductType))
	brand := normalizeText(strings.TrimSpace(analysis.Brand))

	var matched []domain.Product
	if productType != "" || brand != "" {
		for _, p := range catalog {
			byType := productType != "" &&
				(containsNormalized(p.Name, productType) || containsNormalized(p.Category, productType))
			byBrand := brand != "" && containsNormalized(p.Description, brand)
			if !byType && !byBrand {
				continue
			}
			matched = append(matched, p)
			if len(matched) == limit {
				break
			}
		}
	}

	if len(matched) == 0 {
		return domain.MatchResult{Tier: domain.TierNone, Products: []domain.Product{}}
	}

	m.logResult(domain.TierVisual, len(matched))
	return domain.MatchResult{Tier: domain.TierVisual, Products: matched}
}

func (m *CatalogMatcher) exactMatches(criteria domain.Criteria, catalog []domain.Product, limit int) []domain.Product {
	var productType string
	if criteria.ProductType != nil {
		productType = normalizeText(*criteria.ProductType)
	}

	var matched []domain.Product
	for _, p := range catalog {
		if productType != "" &&
			!containsNormalized(p.Name, productType) &&
			!containsNormalized(p.Category, productType) {
			continue
		}
		if !satisfiesPrice(p.ReferencePrice(m.priceVariant), criteria.PriceRange) {
			continue
		}
		matched = append(matched, p)
		if len(matched) == limit {
			break
		}
	}
	return matched
}

// keywordMatches keeps products whose name, category or description contains term
func keywordMatches(catalog []domain.Product, limit int, term string) []domain.Product {
	var matched []domain.Product
	for _, p := range catalog {
		if containsNormalized(p.Name, term) ||
			containsNormalized(p.Category, term) ||
			containsNormalized(p.Description, term) {
			matched = append(matched, p)
			if len(matched) == limit {
				break
			}
		}
	}
	return matched
}

// satisfiesPrice applies a price range to a reference price. A missing price
// is 0, so it passes every "under" and fails every "over" constraint.
func satisfiesPrice(price int64, pr *domain.PriceRange) bool {
	if pr == nil {
		return true
	}

	switch pr.Operator {
	case domain.PriceUnder:
		return price < pr.Amount
	case domain.PriceOver:
		return price > pr.Amount
	case domain.PriceApprox:
		return math.Abs(float64(price-pr.Amount)) < approxTolerance*float64(pr.Amount)
	default:
		return true
	}
}

func (m *CatalogMatcher) logResult(tier domain.Tier, count int) {
	m.logger.Debug().
		Str("tier", string(tier)).
		Int("count", count).
		Msg("catalog matched")
}
