package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lawrns/flavatix/internal/domain"
	"github.com/lawrns/flavatix/internal/repository"
)

// DescriptorHandler handles descriptor browsing and stats endpoints.
type DescriptorHandler struct {
	descriptorRepo *repository.DescriptorRepository
	taxonomyRepo   *repository.TaxonomyRepository
	wheelRepo      *repository.WheelRepository
}

// NewDescriptorHandler creates a new descriptor handler.
// Parameters:
//   - descriptorRepo: descriptor store.
//   - taxonomyRepo: taxonomy store, used for stats.
//   - wheelRepo: wheel store, used for stats.
// Returns:
//   - *DescriptorHandler: initialized handler.
func NewDescriptorHandler(
	descriptorRepo *repository.DescriptorRepository,
	taxonomyRepo *repository.TaxonomyRepository,
	wheelRepo *repository.WheelRepository,
) *DescriptorHandler {
	return &DescriptorHandler{
		descriptorRepo: descriptorRepo,
		taxonomyRepo:   taxonomyRepo,
		wheelRepo:      wheelRepo,
	}
}

// List handles GET /api/v1/descriptors.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *DescriptorHandler) List(c *gin.Context) {
	filter := repository.DescriptorFilter{
		UserID:       c.Query("user_id"),
		SourceID:     c.Query("source_id"),
		ItemName:     c.Query("item_name"),
		ItemCategory: c.Query("item_category"),
		Limit:        50,
	}

	if types := c.Query("types"); types != "" {
		for _, raw := range strings.Split(types, ",") {
			st := domain.SemanticType(strings.TrimSpace(raw))
			if !st.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Unknown semantic type: " + string(st),
				})
				return
			}
			filter.SemanticTypes = append(filter.SemanticTypes, st)
		}
	}

	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 && n <= 500 {
			filter.Limit = n
		}
	}
	if offset := c.Query("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil && n >= 0 {
			filter.Offset = n
		}
	}

	descriptors, err := h.descriptorRepo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list descriptors: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"descriptors": descriptors,
		"total":       len(descriptors),
	})
}

// GetStats handles GET /api/v1/stats.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *DescriptorHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	descriptorCount, err := h.descriptorRepo.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get stats: " + err.Error(),
		})
		return
	}

	byType, err := h.descriptorRepo.CountByType(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get stats: " + err.Error(),
		})
		return
	}

	taxonomyCount, err := h.taxonomyRepo.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get stats: " + err.Error(),
		})
		return
	}

	wheelCount, err := h.wheelRepo.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get stats: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"descriptors":         descriptorCount,
		"descriptors_by_type": byType,
		"taxonomies":          taxonomyCount,
		"wheels":              wheelCount,
	})
}
