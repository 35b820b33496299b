package models

import (
	"encoding/json"

	"portfolio-metrics/internal/metrics"
	"portfolio-metrics/internal/model"
)

// CalculateResponse is returned by POST /api/v1/calculate on success
type CalculateResponse struct {
	Status             string          `json:"status"`
	SubmissionResponse json.RawMessage `json:"submission_response"`
	RequestBody        *metrics.Report `json:"request_body"`
}

// StatusErrorResponse is returned when the report was computed but submission failed
type StatusErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// PositionsResponse lists the configured positions
type PositionsResponse struct {
	Count     int                    `json:"count"`
	Positions []model.PositionRecord `json:"positions"`
}

// RankResponse represents the response from ranking positions
type RankResponse struct {
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	TargetCurrency string    `json:"target_currency"`
	Rankings       []Ranking `json:"rankings"`
	Basket         Ranking   `json:"basket"`
}

// Ranking represents one ranked position
type Ranking struct {
	Rank             int     `json:"rank,omitempty"`
	PositionID       int     `json:"position_id,omitempty"`
	DaysOpen         int     `json:"days_open"`
	FirstOpenDate    string  `json:"first_open_date,omitempty"`
	LastOpenDate     string  `json:"last_open_date,omitempty"`
	FinalValue       float64 `json:"final_value"`
	TotalReturn      float64 `json:"total_return"`
	CompoundedReturn float64 `json:"compounded_return"`
	MeanDailyReturn  float64 `json:"mean_daily_return"`
	P05DailyReturn   float64 `json:"p05_daily_return"`
	P95DailyReturn   float64 `json:"p95_daily_return"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
