package domain

// Product is a catalog entry. Every field may be missing in the source data;
// missing values decode to their zero value and are never an error.
type Product struct {
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name"`
	Category    string           `json:"category,omitempty"`
	Description string           `json:"description,omitempty"`
	Prices      map[string]int64 `json:"prices,omitempty"`
	Price       int64            `json:"price,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
}

// ReferencePrice returns the price used for comparisons: the given variant
// if it is set and non-zero, then the flat price, then 0.
func (p Product) ReferencePrice(variant string) int64 {
	if v := p.Prices[variant]; v != 0 {
		return v
	}
	return p.Price
}

// Tier identifies which matching strategy produced a result set
type Tier string

const (
	TierNone    Tier = ""
	TierExact   Tier = "exact"
	TierKeyword Tier = "keyword"
	TierDefault Tier = "default"
	TierVisual  Tier = "visual"
)

// MatchResult is the ordered output of a catalog match together with the tier that produced it
type MatchResult struct {
	Tier     Tier
	Products []Product
}

// ScoredProduct is a product annotated with the fixed confidence of its tier
type ScoredProduct struct {
	Product
	Similarity float64 `json:"similarity"`
	Tier       Tier    `json:"-"`
}

// ProductSummary is the compact form of a product sent to the reply generator
type ProductSummary struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}
