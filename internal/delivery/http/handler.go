package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/shopbot/backend/internal/domain"
)

const (
	msgMissingQuery = "Thiếu câu hỏi"
	msgMissingImage = "Không có hình ảnh"

	defaultMaxUploadBytes = 5 << 20
)

// ChatbotUsecase is the application service behind the chatbot endpoints
type ChatbotUsecase interface {
	ProcessQuery(ctx context.Context, query string) (*domain.QueryResponse, error)
	SearchByImage(ctx context.Context, image []byte, mimeType string) (*domain.ImageSearchResponse, error)
}

// UploadPolicy restricts image uploads
type UploadPolicy struct {
	MaxBytes     int64
	AllowedTypes []string
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	chatbot ChatbotUsecase
	upload  UploadPolicy
}

// NewHandler creates a new HTTP handler
func NewHandler(chatbot ChatbotUsecase, upload UploadPolicy) *Handler {
	if upload.MaxBytes <= 0 {
		upload.MaxBytes = defaultMaxUploadBytes
	}
	if len(upload.AllowedTypes) == 0 {
		upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	}
	return &Handler{
		chatbot: chatbot,
		upload:  upload,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shopbot-backend",
		"version": "1.0.0",
	})
}

// NaturalQuery handles POST /api/chatbot/natural-query
func (h *Handler) NaturalQuery(c *gin.Context) {
	if h.chatbot == nil {
		respondMessage(c, http.StatusServiceUnavailable, "chatbot service not available")
		return
	}

	var req domain.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		respondMessage(c, http.StatusBadRequest, msgMissingQuery)
		return
	}

	resp, err := h.chatbot.ProcessQuery(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			respondMessage(c, http.StatusBadRequest, msgMissingQuery)
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SearchByImage handles POST /api/chatbot/search-by-image with a multipart "image" field
func (h *Handler) SearchByImage(c *gin.Context) {
	if h.chatbot == nil {
		respondMessage(c, http.StatusServiceUnavailable, "chatbot service not available")
		return
	}

	// Multipart framing adds some bytes on top of the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.upload.MaxBytes+(1<<20))

	fileHeader, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, domain.ErrPayloadTooLarge)
			return
		}
		respondMessage(c, http.StatusBadRequest, msgMissingImage)
		return
	}

	if fileHeader.Size > h.upload.MaxBytes {
		respondError(c, domain.ErrPayloadTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondMessage(c, http.StatusBadRequest, msgMissingImage)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.upload.MaxBytes+1))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, msgMissingImage)
		return
	}
	if int64(len(data)) > h.upload.MaxBytes {
		respondError(c, domain.ErrPayloadTooLarge)
		return
	}
	if len(data) == 0 {
		respondMessage(c, http.StatusBadRequest, msgMissingImage)
		return
	}

	mimeType, ok := h.detectImageType(data)
	if !ok {
		respondError(c, fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, mimeType))
		return
	}

	resp, err := h.chatbot.SearchByImage(c.Request.Context(), data, mimeType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// detectImageType sniffs the upload content; the client-supplied content type is ignored
func (h *Handler) detectImageType(data []byte) (string, bool) {
	detected := mimetype.Detect(data)
	for _, allowed := range h.upload.AllowedTypes {
		if detected.Is(allowed) {
			return allowed, true
		}
	}
	return detected.String(), false
}

func respondMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		respondMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPayloadTooLarge):
		respondMessage(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrUnsupportedMedia):
		respondMessage(c, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		respondMessage(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrVisionFailure):
		respondMessage(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, domain.ErrCatalogUnavailable):
		respondMessage(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondMessage(c, http.StatusGatewayTimeout, err.Error())
	default:
		respondMessage(c, http.StatusInternalServerError, "internal server error")
	}
}
