package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lawrns/flavatix/internal/service"
)

// ExtractionHandler handles descriptor extraction endpoints.
type ExtractionHandler struct {
	extractionService *service.ExtractionService
	maxTextLength     int
}

// NewExtractionHandler creates a new extraction handler.
// Parameters:
//   - extractionService: extraction pipeline instance.
//   - maxTextLength: upper bound on input text length; 0 disables the check.
// Returns:
//   - *ExtractionHandler: initialized handler.
func NewExtractionHandler(extractionService *service.ExtractionService, maxTextLength int) *ExtractionHandler {
	return &ExtractionHandler{
		extractionService: extractionService,
		maxTextLength:     maxTextLength,
	}
}

// Extract handles POST /api/v1/extract.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ExtractionHandler) Extract(c *gin.Context) {
	var req service.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if h.maxTextLength > 0 && len(req.Text) > h.maxTextLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Text exceeds maximum length",
		})
		return
	}

	result, err := h.extractionService.Extract(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Extraction failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
