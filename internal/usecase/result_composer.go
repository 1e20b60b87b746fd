package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shopbot/backend/internal/domain"
)

const (
	// replyProductLimit is how many products are summarized for the reply generator
	replyProductLimit = 5

	// responseProductLimit is how many products are returned to the caller
	responseProductLimit = 10

	// FallbackReply replaces the generated reply whenever generation fails
	FallbackReply = "Xin lỗi, tôi không thể trả lời ngay. Vui lòng thử lại sau!"
)

// ResultComposer assembles matches into a reply payload and obtains the reply text
type ResultComposer struct {
	generator    domain.TextGenerator
	priceVariant string
	logger       zerolog.Logger
}

// NewResultComposer creates a new result composer. generator may be nil,
// in which case every reply is the fallback.
func NewResultComposer(generator domain.TextGenerator, priceVariant string, logger zerolog.Logger) *ResultComposer {
	if priceVariant == "" {
		priceVariant = DefaultPriceVariant
	}
	return &ResultComposer{
		generator:    generator,
		priceVariant: priceVariant,
		logger:       logger.With().Str("component", "composer").Logger(),
	}
}

// Compose truncates scored products for the generator (top 5) and the caller (top 10)
func (c *ResultComposer) Compose(query string, criteria domain.Criteria, scored []domain.ScoredProduct) domain.ComposerPayload {
	summaries := make([]domain.ProductSummary, 0, min(len(scored), replyProductLimit))
	for _, p := range scored[:min(len(scored), replyProductLimit)] {
		summaries = append(summaries, domain.ProductSummary{
			Name:  p.Name,
			Price: p.ReferencePrice(c.priceVariant),
		})
	}

	products := make([]domain.ScoredProduct, min(len(scored), responseProductLimit))
	copy(products, scored)

	return domain.ComposerPayload{
		Query:     query,
		Criteria:  criteria,
		Summaries: summaries,
		Products:  products,
	}
}

// Reply asks the generator for a reply. It never fails: on any generator error,
// empty output or missing generator it returns FallbackReply and false.
func (c *ResultComposer) Reply(ctx context.Context, payload domain.ComposerPayload) (string, bool) {
	if c.generator == nil {
		return FallbackReply, false
	}

	text, err := c.generator.GenerateReply(ctx, domain.ReplyRequest{
		Query:    payload.Query,
		Criteria: payload.Criteria,
		Products: payload.Summaries,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("query", payload.Query).Msg("reply generation failed, using fallback")
		return FallbackReply, false
	}

	text = strings.TrimSpace(text)
	if text == "" {
		c.logger.Warn().Str("query", payload.Query).Msg("reply generator returned empty text, using fallback")
		return FallbackReply, false
	}

	return text, true
}
