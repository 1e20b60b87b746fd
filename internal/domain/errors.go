package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrGeneratorFailure is returned when the reply generator cannot produce text
	ErrGeneratorFailure = errors.New("reply generation failed")

	// ErrVisionFailure is returned when the image could not be analyzed
	ErrVisionFailure = errors.New("image analysis failed")

	// ErrInvalidAnalysis is returned when structured vision output does not match the schema
	ErrInvalidAnalysis = errors.New("image analysis does not match schema")

	// ErrCatalogUnavailable is returned when no catalog snapshot could be loaded
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrUnsupportedMedia is returned for uploads that are not an accepted image type
	ErrUnsupportedMedia = errors.New("unsupported media type")

	// ErrPayloadTooLarge is returned for uploads above the configured size limit
	ErrPayloadTooLarge = errors.New("payload too large")
)
