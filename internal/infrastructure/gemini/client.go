package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/shopbot/backend/internal/domain"
)

// DefaultModel is used for both text and vision when no model is configured
const DefaultModel = "gemini-1.5-flash"

// contentGenerator is the subset of *genai.Models used by the client
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config holds the settings for the Gemini client
type Config struct {
	APIKey            string
	TextModel         string
	VisionModel       string
	Temperature       float32
	MaxOutputTokens   int32
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
}

// Client generates chatbot replies and image analyses with Gemini.
// It implements domain.TextGenerator and domain.VisionAnalyzer.
type Client struct {
	models          contentGenerator
	textModel       string
	visionModel     string
	temperature     float32
	maxOutputTokens int32
	rateLimiter     *rate.Limiter
	maxRetries      int
	logger          zerolog.Logger
}

// NewClient creates a new Gemini API client
func NewClient(ctx context.Context, cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return newClient(genaiClient.Models, cfg, logger), nil
}

func newClient(models contentGenerator, cfg Config, logger zerolog.Logger) *Client {
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultModel
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = cfg.TextModel
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	return &Client{
		models:          models,
		textModel:       cfg.TextModel,
		visionModel:     cfg.VisionModel,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		rateLimiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxRetries:      cfg.MaxRetries,
		logger:          logger.With().Str("component", "gemini").Logger(),
	}
}

// exponentialBackoff returns the wait before the given retry attempt: 500ms, 1s, 2s...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
}

// generate calls the model with rate limiting and retries transient failures
func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		start := time.Now()
		resp, err := c.models.GenerateContent(ctx, model, contents, config)
		if err == nil {
			text, textErr := extractText(resp)
			if textErr == nil {
				c.logger.Debug().
					Str("model", model).
					Int("attempt", attempt).
					Dur("took", time.Since(start)).
					Msg("generation succeeded")
				return text, nil
			}
			err = textErr
		}

		lastErr = err
		c.logger.Warn().Err(err).Str("model", model).Int("attempt", attempt).Msg("generation failed")

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isRetryable(err) || attempt == c.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(exponentialBackoff(attempt)):
		}
	}

	return "", lastErr
}

// isRetryable reports whether a failed call may succeed when repeated.
// API errors other than 408, 429 and 5xx (bad key, bad request, blocked model) are permanent.
func isRetryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return retryableStatus(apiErrPtr.Code)
	}
	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// extractText joins the text parts of the first candidate
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in Gemini response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content in Gemini response")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("empty text in Gemini response")
	}
	return text, nil
}

// GenerateReply writes a friendly Vietnamese reply recommending the matched products
func (c *Client) GenerateReply(ctx context.Context, req domain.ReplyRequest) (string, error) {
	temp := c.temperature
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if c.maxOutputTokens > 0 {
		config.MaxOutputTokens = c.maxOutputTokens
	}

	text, err := c.generate(ctx, c.textModel, genai.Text(buildReplyPrompt(req)), config)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneratorFailure, err)
	}
	return text, nil
}

// AnalyzeImage asks the vision model for a structured description of the pictured product
func (c *Client) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*domain.ImageAnalysis, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidRequest)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(imageAnalysisPrompt),
		genai.NewPartFromBytes(image, mimeType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temp := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   imageAnalysisSchema(),
	}

	text, err := c.generate(ctx, c.visionModel, contents, config)
	if err != nil {
		return nil, err
	}

	return decodeImageAnalysis(text)
}
