package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopbot/backend/internal/domain"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeTestCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	content := `[
		{"name":"iPhone 15","category":"điện thoại","prices":{"250":4500000}},
		{"name":"Samsung Galaxy S24","category":"điện thoại","prices":{"250":15000000}},
		{"name":"Loa JBL Flip","category":"loa","price":1200000}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAnalyzeCommand(t *testing.T) {
	t.Run("prints criteria", func(t *testing.T) {
		out, err := runCLI(t, "analyze", "điện", "thoại", "samsung", "dưới", "10", "triệu")
		require.NoError(t, err)

		assert.Contains(t, out, "product type: điện thoại")
		assert.Contains(t, out, "brand: samsung")
		assert.Contains(t, out, "price: under 10000000")
		assert.Contains(t, out, "intent: search")
	})

	t.Run("prints json", func(t *testing.T) {
		out, err := runCLI(t, "--json", "analyze", "laptop ram 16gb")
		require.NoError(t, err)

		var criteria domain.Criteria
		require.NoError(t, json.Unmarshal([]byte(out), &criteria))
		require.NotNil(t, criteria.ProductType)
		assert.Equal(t, "laptop", *criteria.ProductType)
		assert.Equal(t, 16, criteria.Specifications["ram"])
	})

	t.Run("requires a query", func(t *testing.T) {
		_, err := runCLI(t, "analyze")
		assert.Error(t, err)
	})
}

func TestMatchCommand(t *testing.T) {
	catalogPath := writeTestCatalog(t)

	t.Run("exact tier", func(t *testing.T) {
		out, err := runCLI(t, "--json", "match", "--catalog", catalogPath, "điện thoại dưới 10 triệu")
		require.NoError(t, err)

		var result matchOutput
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, domain.TierExact, result.Tier)
		require.Len(t, result.Products, 1)
		assert.Equal(t, "iPhone 15", result.Products[0].Name)
		assert.Equal(t, 0.8, result.Products[0].Similarity)
	})

	t.Run("default tier with limit", func(t *testing.T) {
		out, err := runCLI(t, "match", "--catalog", catalogPath, "-n", "2", "xin chào")
		require.NoError(t, err)

		assert.Contains(t, out, "tier: default (2)")
		assert.Contains(t, out, "iPhone 15")
		assert.NotContains(t, out, "Loa JBL Flip")
	})

	t.Run("greeting against the shipped catalog uses catalog order", func(t *testing.T) {
		out, err := runCLI(t, "--json", "match", "--catalog", filepath.Join("..", "..", "data", "catalog.json"), "xin chào")
		require.NoError(t, err)

		var result matchOutput
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, domain.TierDefault, result.Tier)
		require.NotEmpty(t, result.Products)
		assert.Equal(t, 0.5, result.Products[0].Similarity)
	})

	t.Run("missing catalog file", func(t *testing.T) {
		_, err := runCLI(t, "match", "--catalog", filepath.Join(t.TempDir(), "missing.json"), "loa")
		assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	})
}
