package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopbot/backend/internal/domain"
	"github.com/shopbot/backend/internal/observability"
)

const (
	defaultTextTimeout  = 15 * time.Second
	defaultImageTimeout = 30 * time.Second
	defaultCacheTTL     = 24 * time.Hour
)

// ChatbotServiceConfig holds configuration for the chatbot service
type ChatbotServiceConfig struct {
	CacheTTL     time.Duration
	TextTimeout  time.Duration
	ImageTimeout time.Duration
	PriceVariant string
	MatchLimit   int
}

// ChatbotService answers text and image product queries against the catalog.
// Flow: check cache -> analyze -> match -> score -> compose -> reply -> cache -> return
type ChatbotService struct {
	cache        domain.CacheRepository
	catalog      domain.CatalogRepository
	vision       domain.VisionAnalyzer
	analyzer     *QueryAnalyzer
	matcher      *CatalogMatcher
	scorer       *ResultScorer
	composer     *ResultComposer
	metrics      *observability.Metrics
	logger       zerolog.Logger
	cacheTTL     time.Duration
	textTimeout  time.Duration
	imageTimeout time.Duration
	matchLimit   int
}

// NewChatbotService creates a new chatbot service with dependencies.
// cache, generator, vision and metrics may be nil.
func NewChatbotService(
	cache domain.CacheRepository,
	catalog domain.CatalogRepository,
	generator domain.TextGenerator,
	vision domain.VisionAnalyzer,
	metrics *observability.Metrics,
	logger zerolog.Logger,
	config ChatbotServiceConfig,
) *ChatbotService {
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	textTimeout := config.TextTimeout
	if textTimeout <= 0 {
		textTimeout = defaultTextTimeout
	}
	imageTimeout := config.ImageTimeout
	if imageTimeout <= 0 {
		imageTimeout = defaultImageTimeout
	}
	matchLimit := config.MatchLimit
	if matchLimit <= 0 {
		matchLimit = DefaultMatchLimit
	}

	return &ChatbotService{
		cache:        cache,
		catalog:      catalog,
		vision:       vision,
		analyzer:     NewQueryAnalyzer(logger),
		matcher:      NewCatalogMatcher(MatchConfig{PriceVariant: config.PriceVariant, Limit: matchLimit}, logger),
		scorer:       NewResultScorer(),
		composer:     NewResultComposer(generator, config.PriceVariant, logger),
		metrics:      metrics,
		logger:       logger.With().Str("component", "chatbot").Logger(),
		cacheTTL:     cacheTTL,
		textTimeout:  textTimeout,
		imageTimeout: imageTimeout,
		matchLimit:   matchLimit,
	}
}

// ProcessQuery analyzes a natural-language query, matches it against the
// catalog and attaches a generated reply. Generator failures never fail the call.
func (s *ChatbotService) ProcessQuery(ctx context.Context, query string) (*domain.QueryResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := s.queryCacheKey(query)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		s.metrics.CacheHit()
		cached.Cached = true
		return cached, nil
	}

	criteria := s.analyzer.Analyze(query)
	result := s.matcher.Match(criteria, s.snapshot(), s.matchLimit)
	s.metrics.ObserveMatch(string(result.Tier))

	scored := s.scorer.Score(result.Products, result.Tier)
	payload := s.composer.Compose(query, criteria, scored)

	replyCtx, cancel := context.WithTimeout(ctx, s.textTimeout)
	defer cancel()

	reply, generated := s.composer.Reply(replyCtx, payload)
	if !generated {
		s.metrics.ReplyFallback()
	}

	response := &domain.QueryResponse{
		Success:  true,
		Response: reply,
		Products: payload.Products,
		Analysis: criteria,
	}

	// Fallback replies are transient; caching them would pin the apology.
	if generated {
		if err := s.setInCache(ctx, cacheKey, response); err != nil {
			s.logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache query response")
		}
	}

	return response, nil
}

// SearchByImage asks the vision collaborator to describe the image and
// searches the catalog with the resulting product type and brand.
func (s *ChatbotService) SearchByImage(ctx context.Context, image []byte, mimeType string) (*domain.ImageSearchResponse, error) {
	if len(image) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	if s.vision == nil {
		s.metrics.VisionFailure()
		return nil, fmt.Errorf("%w: no vision analyzer configured", domain.ErrVisionFailure)
	}

	visionCtx, cancel := context.WithTimeout(ctx, s.imageTimeout)
	defer cancel()

	analysis, err := s.vision.AnalyzeImage(visionCtx, image, mimeType)
	if err != nil {
		s.metrics.VisionFailure()
		return nil, fmt.Errorf("%w: %w", domain.ErrVisionFailure, err)
	}
	if err := analysis.Validate(); err != nil {
		s.metrics.VisionFailure()
		return nil, fmt.Errorf("%w: %w", domain.ErrVisionFailure, err)
	}

	result := s.matcher.MatchImage(*analysis, s.snapshot(), s.matchLimit)
	s.metrics.ObserveMatch(string(result.Tier))

	scored := s.scorer.Score(result.Products, result.Tier)

	s.logger.Info().
		Str("product_type", analysis.ProductType).
		Str("brand", analysis.Brand).
		Int("matches", len(scored)).
		Msg("image search completed")

	return &domain.ImageSearchResponse{
		Success:  true,
		Analysis: *analysis,
		Products: scored,
		Message:  fmt.Sprintf("Tìm thấy %d sản phẩm tương tự", len(scored)),
	}, nil
}

// Analyze exposes the analyzer for callers that only need criteria
func (s *ChatbotService) Analyze(query string) domain.Criteria {
	return s.analyzer.Analyze(query)
}

func (s *ChatbotService) snapshot() []domain.Product {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Snapshot()
}

// versionedCatalog is implemented by catalogs that reload at runtime
type versionedCatalog interface {
	LoadedAt() time.Time
}

// queryCacheKey scopes the query key to the loaded catalog snapshot, so a
// reload never serves products or prices from the previous one.
func (s *ChatbotService) queryCacheKey(query string) string {
	var version int64
	if vc, ok := s.catalog.(versionedCatalog); ok {
		if loadedAt := vc.LoadedAt(); !loadedAt.IsZero() {
			version = loadedAt.UnixNano()
		}
	}
	return generateQueryCacheKey(query, version)
}

// generateQueryCacheKey creates a normalized cache key from the query.
// Format: "chatbot:query:{normalized_query}", or
// "chatbot:query:{catalog_version}:{normalized_query}" for a versioned catalog.
func generateQueryCacheKey(query string, catalogVersion int64) string {
	if catalogVersion == 0 {
		return "chatbot:query:" + normalizeForCacheKey(query)
	}
	return fmt.Sprintf("chatbot:query:%d:%s", catalogVersion, normalizeForCacheKey(query))
}

// getFromCache retrieves a query response from cache
func (s *ChatbotService) getFromCache(ctx context.Context, key string) (*domain.QueryResponse, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var response domain.QueryResponse
	if err := json.Unmarshal(data, &response); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return nil, domain.ErrCacheMiss
	}
	return &response, nil
}

// setInCache stores a query response in cache
func (s *ChatbotService) setInCache(ctx context.Context, key string, response *domain.QueryResponse) error {
	if s.cache == nil {
		return nil
	}

	data, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
