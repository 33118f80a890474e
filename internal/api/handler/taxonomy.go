package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lawrns/flavatix/internal/service"
)

// TaxonomyHandler handles category taxonomy endpoints.
type TaxonomyHandler struct {
	taxonomyService *service.TaxonomyService
}

// NewTaxonomyHandler creates a new taxonomy handler.
// Parameters:
//   - taxonomyService: taxonomy resolver instance.
// Returns:
//   - *TaxonomyHandler: initialized handler.
func NewTaxonomyHandler(taxonomyService *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{
		taxonomyService: taxonomyService,
	}
}

type resolveTaxonomyRequest struct {
	Category string `json:"category"`
	Force    bool   `json:"force,omitempty"`
}

// Resolve handles POST /api/v1/taxonomy/resolve. With force set, the stored
// taxonomy is regenerated and overwritten instead of reused.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *TaxonomyHandler) Resolve(c *gin.Context) {
	var req resolveTaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	resolve := h.taxonomyService.Resolve
	if req.Force {
		resolve = h.taxonomyService.Regenerate
	}

	result, err := resolve(c.Request.Context(), req.Category)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Taxonomy resolution failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"taxonomy":  result.Taxonomy,
		"generated": result.Generated,
	})
}
