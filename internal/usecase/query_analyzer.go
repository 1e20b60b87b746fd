package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shopbot/backend/internal/domain"
)

// productTypeRule maps a catalog product type to the keywords that signal it.
type productTypeRule struct {
	productType string
	keywords    []string
}

// productTypeLexicon is evaluated in order; the first rule with a keyword hit wins.
// "máy tính bảng" therefore resolves to laptop because "máy tính" is declared first.
var productTypeLexicon = []productTypeRule{
	{productType: "điện thoại", keywords: []string{"điện thoại", "smartphone", "phone", "mobile"}},
	{productType: "laptop", keywords: []string{"laptop", "máy tính", "computer"}},
	{productType: "tablet", keywords: []string{"tablet", "máy tính bảng"}},
	{productType: "tai nghe", keywords: []string{"tai nghe", "headphone", "earphone"}},
	{productType: "loa", keywords: []string{"loa", "speaker"}},
	{productType: "đồng hồ", keywords: []string{"đồng hồ", "watch", "smartwatch"}},
}

// specRule extracts the first number that follows one of its keywords.
type specRule struct {
	name    string
	pattern *regexp.Regexp
}

func newSpecRule(name string, keywords ...string) specRule {
	return specRule{
		name:    name,
		pattern: regexp.MustCompile(`(?i)(` + alternation(keywords) + `)[\s\p{Zs}]*(\d+)`),
	}
}

var specLexicon = []specRule{
	newSpecRule("ram", "ram", "memory"),
	newSpecRule("dung lượng", "dung lượng", "storage", "gb", "tb"),
	newSpecRule("màn hình", "màn hình", "screen", "inch", "kích thước"),
	newSpecRule("camera", "camera", "máy ảnh", "mp"),
	newSpecRule("pin", "pin", "battery", "mah"),
}

// brandRule matches whole-word brand names; brands are informational only.
type brandRule struct {
	brand   string
	pattern *regexp.Regexp
}

func newBrandRule(brand string, keywords ...string) brandRule {
	return brandRule{
		brand:   brand,
		pattern: regexp.MustCompile(`(?i)\b(` + alternation(keywords) + `)\b`),
	}
}

var brandLexicon = []brandRule{
	newBrandRule("apple", "apple", "iphone", "ipad", "macbook"),
	newBrandRule("samsung", "samsung", "galaxy"),
	newBrandRule("xiaomi", "xiaomi", "redmi"),
	newBrandRule("oppo", "oppo"),
	newBrandRule("vivo", "vivo"),
	newBrandRule("huawei", "huawei"),
	newBrandRule("sony", "sony"),
	newBrandRule("jbl", "jbl"),
	newBrandRule("dell", "dell"),
	newBrandRule("hp", "hp"),
	newBrandRule("lenovo", "lenovo"),
	newBrandRule("asus", "asus"),
}

// pricePattern captures (operator)(number)(unit); only the first match in a query counts.
var pricePattern = regexp.MustCompile(`(?i)(dưới|trên|khoảng|từ|đến)[\s\p{Zs}]*(\d+)[\s\p{Zs}]*(triệu|nghìn|k|m)`)

var priceOperators = map[string]domain.PriceOperator{
	"dưới":   domain.PriceUnder,
	"trên":   domain.PriceOver,
	"khoảng": domain.PriceApprox,
	"từ":     domain.PriceFrom,
	"đến":    domain.PriceTo,
}

var priceUnits = map[string]int64{
	"triệu": 1_000_000,
	"nghìn": 1_000,
	"k":     1_000,
	"m":     1_000_000,
}

func alternation(keywords []string) string {
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return strings.Join(quoted, "|")
}

// QueryAnalyzer turns free-text product requests into structured criteria
type QueryAnalyzer struct {
	logger zerolog.Logger
}

// NewQueryAnalyzer creates a new query analyzer
func NewQueryAnalyzer(logger zerolog.Logger) *QueryAnalyzer {
	return &QueryAnalyzer{
		logger: logger.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze extracts product type, specifications, price range and brand from query.
// It never fails: signals that are not present are left nil or empty.
func (a *QueryAnalyzer) Analyze(query string) domain.Criteria {
	normalized := normalizeText(query)

	criteria := domain.Criteria{
		ProductType:    detectProductType(normalized),
		Specifications: extractSpecifications(normalized),
		PriceRange:     extractPriceRange(normalized),
		Brand:          detectBrand(normalized),
		Intent:         domain.DefaultIntent,
	}

	a.logger.Debug().
		Str("query", query).
		Interface("criteria", criteria).
		Msg("query analyzed")

	return criteria
}

func detectProductType(normalized string) *string {
	for _, rule := range productTypeLexicon {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				productType := rule.productType
				return &productType
			}
		}
	}
	return nil
}

func extractSpecifications(normalized string) map[string]int {
	specs := make(map[string]int)
	for _, rule := range specLexicon {
		match := rule.pattern.FindStringSubmatch(normalized)
		if match == nil {
			continue
		}
		value, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		specs[rule.name] = value
	}
	return specs
}

func extractPriceRange(normalized string) *domain.PriceRange {
	match := pricePattern.FindStringSubmatch(normalized)
	if match == nil {
		return nil
	}

	amount, err := strconv.ParseInt(match[2], 10, 64)
	if err != nil {
		return nil
	}

	multiplier := priceUnits[match[3]]
	if amount > math.MaxInt64/multiplier {
		return nil
	}

	return &domain.PriceRange{
		Operator: priceOperators[match[1]],
		Amount:   amount * multiplier,
	}
}

func detectBrand(normalized string) *string {
	for _, rule := range brandLexicon {
		if rule.pattern.MatchString(normalized) {
			brand := rule.brand
			return &brand
		}
	}
	return nil
}
