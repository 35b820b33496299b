package model

import (
	"fmt"
	"strings"
	"time"
)

// Inputs bundles everything one engine invocation consumes. All market data must be
// resolved before the engine runs.
type Inputs struct {
	Positions      []Position
	FxRates        FxRateTable
	Prices         PriceTable
	StartDate      time.Time
	EndDate        time.Time
	TargetCurrency string
}

// Validate checks the request-level conditions the engine relies on.
func (in Inputs) Validate() error {
	target := strings.ToUpper(in.TargetCurrency)
	if target == "" {
		return &ValidationError{Field: "target_currency", Reason: "is required"}
	}
	if !ValidCurrency(target) {
		return &ValidationError{Field: "target_currency", Reason: fmt.Sprintf("unknown currency code %q", in.TargetCurrency)}
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return &ValidationError{Field: "start_date/end_date", Reason: "are required"}
	}
	seen := make(map[int]bool, len(in.Positions))
	for _, p := range in.Positions {
		if seen[p.ID] {
			return &ValidationError{PositionID: p.ID, Field: "id", Reason: "duplicate position id"}
		}
		seen[p.ID] = true
	}
	return nil
}
