package models

import "portfolio-metrics/internal/model"

// CalculationQuery holds the query parameters shared by the calculation endpoints.
// Empty fields fall back to the server configuration.
type CalculationQuery struct {
	TargetCurrency string `form:"target_currency"`
	StartDate      string `form:"start_date"` // YYYY-MM-DD
	EndDate        string `form:"end_date"`   // YYYY-MM-DD
}

// CalculationBody is the optional JSON body. Without it the configured positions file is used.
type CalculationBody struct {
	Positions []model.PositionRecord `json:"positions"`
}

// RankQuery selects the ranking order for GET /api/v1/rank
type RankQuery struct {
	CalculationQuery
	By    string `form:"by"`    // "total" (default) or "compounded"
	Limit int    `form:"limit"` // 0 = all
}
