package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lawrns/flavatix/internal/service"
)

// WheelHandler handles flavor wheel endpoints.
type WheelHandler struct {
	wheelService *service.WheelService
}

// NewWheelHandler creates a new wheel handler.
// Parameters:
//   - wheelService: wheel aggregator instance.
// Returns:
//   - *WheelHandler: initialized handler.
func NewWheelHandler(wheelService *service.WheelService) *WheelHandler {
	return &WheelHandler{
		wheelService: wheelService,
	}
}

// Generate handles POST /api/v1/wheels/generate.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *WheelHandler) Generate(c *gin.Context) {
	var req service.GenerateWheelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	result, err := h.wheelService.GenerateWheel(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Wheel generation failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
