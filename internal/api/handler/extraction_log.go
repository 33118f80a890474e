package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lawrns/flavatix/internal/repository"
)

// ExtractionLogHandler handles extraction audit log endpoints.
type ExtractionLogHandler struct {
	logRepo *repository.ExtractionLogRepository
}

// NewExtractionLogHandler creates a new extraction log handler.
// Parameters:
//   - logRepo: extraction audit log store.
// Returns:
//   - *ExtractionLogHandler: initialized handler.
func NewExtractionLogHandler(logRepo *repository.ExtractionLogRepository) *ExtractionLogHandler {
	return &ExtractionLogHandler{
		logRepo: logRepo,
	}
}

// List handles GET /api/v1/extractions.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ExtractionLogHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameter 'user_id' is required",
		})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	logs, err := h.logRepo.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list extractions: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"extractions": logs,
		"total":       len(logs),
	})
}
