package handlers

import (
	"net/http"
	"strings"

	"portfolio-metrics/internal/analysis"
	"portfolio-metrics/internal/api/models"
	"portfolio-metrics/internal/model"

	"github.com/gin-gonic/gin"
)

// Rank handles GET /api/v1/rank
func (h *CalculationHandler) Rank(c *gin.Context) {
	var q models.RankQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	rankBy := analysis.RankByTotalReturn
	switch strings.ToLower(q.By) {
	case "", "total":
	case "compounded":
		rankBy = analysis.RankByCompoundedReturn
	default:
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "by must be one of: total, compounded", nil)
		return
	}

	req, err := h.requestFor(q.CalculationQuery)
	if err != nil {
		writeError(c, err)
		return
	}
	positions, err := h.positions()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "POSITIONS_UNAVAILABLE", err.Error(), nil)
		return
	}
	req.Positions = positions

	report, err := h.svc.Calculate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	ranked := rankBy(report)
	if q.Limit > 0 && q.Limit < len(ranked) {
		ranked = ranked[:q.Limit]
	}

	rankings := make([]models.Ranking, len(ranked))
	for i, s := range ranked {
		rankings[i] = toRanking(s)
		rankings[i].Rank = i + 1
	}

	c.JSON(http.StatusOK, models.RankResponse{
		StartDate:      model.FormatDate(req.StartDate),
		EndDate:        model.FormatDate(req.EndDate),
		TargetCurrency: strings.ToUpper(req.TargetCurrency),
		Rankings:       rankings,
		Basket:         toRanking(analysis.SummarizeBasket(report)),
	})
}

func toRanking(s analysis.PositionSummary) models.Ranking {
	return models.Ranking{
		PositionID:       s.ID,
		DaysOpen:         s.DaysOpen,
		FirstOpenDate:    s.FirstOpenDate,
		LastOpenDate:     s.LastOpenDate,
		FinalValue:       s.FinalValue,
		TotalReturn:      s.TotalReturn,
		CompoundedReturn: s.CompoundedReturn,
		MeanDailyReturn:  s.MeanDailyReturn,
		P05DailyReturn:   s.P05DailyReturn,
		P95DailyReturn:   s.P95DailyReturn,
	}
}
