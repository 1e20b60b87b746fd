package usecase

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/shopbot/backend/internal/domain"
)

func newTestAnalyzer() *QueryAnalyzer {
	return NewQueryAnalyzer(zerolog.Nop())
}

func TestAnalyze_PhoneWithRAMAndBudget(t *testing.T) {
	criteria := newTestAnalyzer().Analyze("điện thoại ram 8gb dưới 5 triệu")

	require.NotNil(t, criteria.ProductType)
	assert.Equal(t, "điện thoại", *criteria.ProductType)
	assert.Equal(t, map[string]int{"ram": 8}, criteria.Specifications)
	require.NotNil(t, criteria.PriceRange)
	assert.Equal(t, domain.PriceRange{Operator: domain.PriceUnder, Amount: 5_000_000}, *criteria.PriceRange)
	assert.Equal(t, "search", criteria.Intent)
}

func TestAnalyze_NoSignals(t *testing.T) {
	criteria := newTestAnalyzer().Analyze("xin chào")

	assert.Nil(t, criteria.ProductType)
	assert.Nil(t, criteria.PriceRange)
	assert.Nil(t, criteria.Brand)
	assert.Empty(t, criteria.Specifications)
	assert.Equal(t, domain.DefaultIntent, criteria.Intent)
	assert.False(t, criteria.HasConstraint())
}

func TestAnalyze_ProductTypePriority(t *testing.T) {
	a := newTestAnalyzer()

	testCases := []struct {
		name  string
		query string
		want  string
	}{
		{name: "vietnamese phone keyword", query: "tìm điện thoại mới", want: "điện thoại"},
		{name: "english phone keyword", query: "cheap smartphone please", want: "điện thoại"},
		{name: "laptop keyword", query: "laptop cho sinh viên", want: "laptop"},
		{name: "tablet phrase resolves to laptop by declaration order", query: "máy tính bảng giá rẻ", want: "laptop"},
		{name: "plain tablet keyword", query: "tablet cho bé", want: "tablet"},
		{name: "headphone contains phone so phone wins", query: "headphone sony", want: "điện thoại"},
		{name: "vietnamese headphone keyword", query: "tai nghe chống ồn", want: "tai nghe"},
		{name: "speaker keyword", query: "speaker bluetooth", want: "loa"},
		{name: "smartwatch keyword", query: "smartwatch chạy bộ", want: "đồng hồ"},
		{name: "uppercase query", query: "ĐIỆN THOẠI SAMSUNG", want: "điện thoại"},
		{name: "decomposed unicode query", query: norm.NFD.String("đồng hồ thông minh"), want: "đồng hồ"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			criteria := a.Analyze(tc.query)
			require.NotNil(t, criteria.ProductType)
			assert.Equal(t, tc.want, *criteria.ProductType)
		})
	}
}

func TestAnalyze_Specifications(t *testing.T) {
	a := newTestAnalyzer()

	testCases := []struct {
		name  string
		query string
		want  map[string]int
	}{
		{
			name:  "camera battery and screen",
			query: "điện thoại camera 48mp pin 5000mah màn hình 6 inch",
			want:  map[string]int{"camera": 48, "pin": 5000, "màn hình": 6},
		},
		{
			name:  "english keywords are case-insensitive",
			query: "Laptop RAM 16 Storage 512",
			want:  map[string]int{"ram": 16, "dung lượng": 512},
		},
		{
			name:  "first match per specification wins",
			query: "ram 8 hoặc ram 12",
			want:  map[string]int{"ram": 8},
		},
		{
			name:  "keyword without number is ignored",
			query: "ram lớn, camera đẹp",
			want:  map[string]int{},
		},
		{
			name:  "number too large for int is skipped",
			query: "ram 99999999999999999999999",
			want:  map[string]int{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, a.Analyze(tc.query).Specifications)
		})
	}
}

func TestAnalyze_PriceUnits(t *testing.T) {
	a := newTestAnalyzer()

	for _, n := range []int64{1, 5, 12, 250, 999} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			million := a.Analyze(fmt.Sprintf("dưới %d triệu", n)).PriceRange
			require.NotNil(t, million)
			assert.Equal(t, n*1_000_000, million.Amount)

			thousand := a.Analyze(fmt.Sprintf("dưới %d k", n)).PriceRange
			require.NotNil(t, thousand)
			assert.Equal(t, n*1_000, thousand.Amount)

			nghin := a.Analyze(fmt.Sprintf("dưới %d nghìn", n)).PriceRange
			require.NotNil(t, nghin)
			assert.Equal(t, n*1_000, nghin.Amount)

			m := a.Analyze(fmt.Sprintf("dưới %dm", n)).PriceRange
			require.NotNil(t, m)
			assert.Equal(t, n*1_000_000, m.Amount)
		})
	}
}

func TestAnalyze_PriceOperators(t *testing.T) {
	a := newTestAnalyzer()

	testCases := []struct {
		query string
		want  domain.PriceOperator
	}{
		{query: "laptop dưới 20 triệu", want: domain.PriceUnder},
		{query: "laptop trên 20 triệu", want: domain.PriceOver},
		{query: "laptop khoảng 20 triệu", want: domain.PriceApprox},
		{query: "laptop từ 20 triệu", want: domain.PriceFrom},
		{query: "laptop đến 20 triệu", want: domain.PriceTo},
		{query: "LAPTOP DƯỚI 20 TRIỆU", want: domain.PriceUnder},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			pr := a.Analyze(tc.query).PriceRange
			require.NotNil(t, pr)
			assert.Equal(t, tc.want, pr.Operator)
			assert.Equal(t, int64(20_000_000), pr.Amount)
		})
	}
}

func TestAnalyze_PriceEdgeCases(t *testing.T) {
	a := newTestAnalyzer()

	t.Run("only the first price expression is honored", func(t *testing.T) {
		pr := a.Analyze("trên 5 triệu dưới 10 triệu").PriceRange
		require.NotNil(t, pr)
		assert.Equal(t, domain.PriceRange{Operator: domain.PriceOver, Amount: 5_000_000}, *pr)
	})

	t.Run("number without unit is not a price", func(t *testing.T) {
		assert.Nil(t, a.Analyze("dưới 5").PriceRange)
	})

	t.Run("overflowing amount is dropped", func(t *testing.T) {
		assert.Nil(t, a.Analyze("dưới 9999999999999999 triệu").PriceRange)
		assert.Nil(t, a.Analyze("dưới 99999999999999999999 k").PriceRange)
	})
}

func TestAnalyze_Brand(t *testing.T) {
	a := newTestAnalyzer()

	criteria := a.Analyze("iphone 15 dưới 20 triệu")
	require.NotNil(t, criteria.Brand)
	assert.Equal(t, "apple", *criteria.Brand)
	require.NotNil(t, criteria.ProductType)
	assert.Equal(t, "điện thoại", *criteria.ProductType)

	assert.Nil(t, a.Analyze("smartphone giá rẻ").Brand, "brand keywords must match whole words")
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := newTestAnalyzer()

	queries := []string{
		"điện thoại ram 8gb dưới 5 triệu",
		"xin chào",
		"tai nghe sony khoảng 7 triệu",
		"",
	}

	for _, q := range queries {
		assert.Equal(t, a.Analyze(q), a.Analyze(q), "query %q", q)
	}
}
