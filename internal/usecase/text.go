package usecase

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var multipleSpacesRegex = regexp.MustCompile(`[\s\p{Zs}]+`)

// normalizeText folds s to NFC and lowercase so that precomposed and
// decomposed Vietnamese spellings compare equal.
func normalizeText(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// containsNormalized reports whether haystack contains an already-normalized needle
func containsNormalized(haystack, needle string) bool {
	if haystack == "" {
		return false
	}
	return strings.Contains(normalizeText(haystack), needle)
}

// normalizeForCacheKey normalizes a string for use as cache key component.
// Punctuation is kept: "5.5" and "55" analyze to different prices.
func normalizeForCacheKey(s string) string {
	result := normalizeText(s)
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
