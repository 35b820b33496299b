package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"portfolio-metrics/internal/api/models"
	"portfolio-metrics/internal/config"
	"portfolio-metrics/internal/metrics"
	"portfolio-metrics/internal/model"
	"portfolio-metrics/internal/service"

	"github.com/gin-gonic/gin"
)

// Calculator is the part of service.Service the handlers need.
type Calculator interface {
	Calculate(ctx context.Context, req service.Request) (*metrics.Report, error)
	CalculateAndSubmit(ctx context.Context, req service.Request) (*service.Outcome, error)
}

// PositionSource returns the configured positions.
type PositionSource func() ([]model.Position, error)

// CalculationHandler handles the calculation endpoints
type CalculationHandler struct {
	svc       Calculator
	positions PositionSource
	defaults  config.CalculationConfig
}

// NewCalculationHandler creates a new calculation handler
func NewCalculationHandler(svc Calculator, positions PositionSource, defaults config.CalculationConfig) *CalculationHandler {
	return &CalculationHandler{svc: svc, positions: positions, defaults: defaults}
}

// Calculate handles POST /api/v1/calculate: compute the report and submit it.
func (h *CalculationHandler) Calculate(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	out, err := h.svc.CalculateAndSubmit(c.Request.Context(), req)
	if err != nil {
		var subErr *service.SubmissionError
		if errors.As(err, &subErr) {
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, models.StatusErrorResponse{
				Status:  "error",
				Message: subErr.Error(),
			})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CalculateResponse{
		Status:             "success",
		SubmissionResponse: out.SubmissionResponse,
		RequestBody:        out.Report,
	})
}

// Metrics handles POST /api/v1/metrics: compute the report without submitting.
func (h *CalculationHandler) Metrics(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	report, err := h.svc.Calculate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *CalculationHandler) bindRequest(c *gin.Context) (service.Request, bool) {
	var q models.CalculationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return service.Request{}, false
	}
	req, err := h.requestFor(q)
	if err != nil {
		writeError(c, err)
		return service.Request{}, false
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return service.Request{}, false
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		var body models.CalculationBody
		if err := json.Unmarshal(raw, &body); err != nil {
			abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", fmt.Sprintf("invalid JSON body: %v", err), nil)
			return service.Request{}, false
		}
		if body.Positions != nil {
			positions, err := model.NewPositions(body.Positions)
			if err != nil {
				writeError(c, err)
				return service.Request{}, false
			}
			req.Positions = positions
			return req, true
		}
	}

	positions, err := h.positions()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "POSITIONS_UNAVAILABLE", err.Error(), nil)
		return service.Request{}, false
	}
	req.Positions = positions
	return req, true
}

// requestFor applies configured defaults to the query and parses the dates.
func (h *CalculationHandler) requestFor(q models.CalculationQuery) (service.Request, error) {
	calc := h.defaults
	if q.StartDate != "" {
		calc.StartDate = q.StartDate
	}
	if q.EndDate != "" {
		calc.EndDate = q.EndDate
	}
	if q.TargetCurrency != "" {
		calc.TargetCurrency = q.TargetCurrency
	}

	start, err := model.ParseDate(calc.StartDate)
	if err != nil {
		return service.Request{}, &model.ValidationError{Field: "start_date", Reason: err.Error()}
	}
	end, err := model.ParseDate(calc.EndDate)
	if err != nil {
		return service.Request{}, &model.ValidationError{Field: "end_date", Reason: err.Error()}
	}
	return service.Request{
		StartDate:      start,
		EndDate:        end,
		TargetCurrency: calc.TargetCurrency,
	}, nil
}
