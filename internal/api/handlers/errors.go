package handlers

import (
	"errors"
	"net/http"

	"portfolio-metrics/internal/api/models"
	"portfolio-metrics/internal/data"
	"portfolio-metrics/internal/model"

	"github.com/gin-gonic/gin"
)

func abortWithError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeError maps engine, validation and provider errors onto HTTP responses.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	var validation *model.ValidationError
	var missingPrice *model.MissingPriceDataError
	var missingFx *model.MissingFxPairError
	var apiErr *data.APIError

	switch {
	case errors.As(err, &validation):
		details := map[string]interface{}{"field": validation.Field}
		if validation.PositionID != 0 {
			details["position_id"] = validation.PositionID
		}
		abortWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), details)

	case errors.As(err, &missingPrice):
		abortWithError(c, http.StatusUnprocessableEntity, "MISSING_PRICE_DATA", err.Error(), map[string]interface{}{
			"position_id":   missingPrice.PositionID,
			"instrument_id": missingPrice.InstrumentID,
			"currency":      missingPrice.Currency,
		})

	case errors.As(err, &missingFx):
		abortWithError(c, http.StatusUnprocessableEntity, "MISSING_FX_PAIR", err.Error(), map[string]interface{}{
			"pair":        missingFx.Pair,
			"position_id": missingFx.PositionID,
		})

	case errors.As(err, &apiErr):
		statusCode := http.StatusBadRequest
		if apiErr.StatusCode == http.StatusForbidden || apiErr.StatusCode == http.StatusUnauthorized {
			statusCode = http.StatusUnauthorized
		} else if apiErr.StatusCode == http.StatusTooManyRequests {
			statusCode = http.StatusTooManyRequests
		}
		abortWithError(c, statusCode, apiErr.Code, apiErr.Message, map[string]interface{}{
			"status_code": apiErr.StatusCode,
			"retry_after": apiErr.RetryAfter,
		})

	default:
		abortWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
	}
}
