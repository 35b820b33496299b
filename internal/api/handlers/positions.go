package handlers

import (
	"net/http"

	"portfolio-metrics/internal/api/models"
	"portfolio-metrics/internal/model"

	"github.com/gin-gonic/gin"
)

// ListPositions handles GET /api/v1/positions
func (h *CalculationHandler) ListPositions(c *gin.Context) {
	positions, err := h.positions()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "POSITIONS_UNAVAILABLE", err.Error(), nil)
		return
	}

	records := make([]model.PositionRecord, len(positions))
	for i, p := range positions {
		records[i] = p.Record()
	}
	c.JSON(http.StatusOK, models.PositionsResponse{
		Count:     len(records),
		Positions: records,
	})
}
