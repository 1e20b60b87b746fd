package domain

// PriceOperator is the comparison requested for a price range
type PriceOperator string

const (
	PriceUnder  PriceOperator = "under"
	PriceOver   PriceOperator = "over"
	PriceApprox PriceOperator = "approx"
	// PriceFrom and PriceTo are captured from the query but impose no filter.
	PriceFrom PriceOperator = "from"
	PriceTo   PriceOperator = "to"
)

// DefaultIntent is the intent assigned to every analyzed query
const DefaultIntent = "search"

// PriceRange is a single-sided price constraint in the smallest currency unit (VND)
type PriceRange struct {
	Operator PriceOperator `json:"operator"`
	Amount   int64         `json:"amount"`
}

// Criteria is the structured form of a free-text product request.
// A nil pointer or empty map means no constraint was found.
type Criteria struct {
	ProductType    *string        `json:"productType"`
	Specifications map[string]int `json:"specifications"`
	PriceRange     *PriceRange    `json:"priceRange"`
	Brand          *string        `json:"brand"`
	Intent         string         `json:"intent"`
}

// HasConstraint reports whether the criteria restricts by product type or price
func (c Criteria) HasConstraint() bool {
	return c.ProductType != nil || c.PriceRange != nil
}

// ComposerPayload carries everything needed to build the reply and the caller's response
type ComposerPayload struct {
	Query     string
	Criteria  Criteria
	Summaries []ProductSummary
	Products  []ScoredProduct
}

// QueryRequest is the body of a natural-language query
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is returned for a natural-language query
type QueryResponse struct {
	Success  bool            `json:"success"`
	Response string          `json:"response"`
	Products []ScoredProduct `json:"products"`
	Analysis Criteria        `json:"analysis"`
	Cached   bool            `json:"cached,omitempty"`
}

// ImageSearchResponse is returned for an image search
type ImageSearchResponse struct {
	Success  bool            `json:"success"`
	Analysis ImageAnalysis   `json:"analysis"`
	Products []ScoredProduct `json:"products"`
	Message  string          `json:"message"`
}
