package metrics

import (
	"fmt"
	"strings"
	"time"

	"portfolio-metrics/internal/model"

	"github.com/rs/zerolog"
)

// Engine computes the metric series for a set of positions. It performs no I/O and
// keeps no state between runs.
type Engine struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "metrics").Logger()}
}

// Result holds every sub-calculation of one run, index-aligned to Dates.
type Result struct {
	Dates          model.DateRange
	TargetCurrency string
	Positions      []model.Position

	IsOpen     model.MetricSeries
	Price      model.MetricSeries
	Quantity   model.MetricSeries
	Value      model.MetricSeries
	OpenPrice  model.MetricSeries
	OpenValue  model.MetricSeries
	ClosePrice model.MetricSeries
	CloseValue model.MetricSeries

	ReturnPerPeriod           model.MetricSeries
	ReturnPerPeriodPercentage model.MetricSeries
}

// Run executes the pipeline in dependency order:
// IsOpen -> Price -> Quantity -> Value, OpenPrice -> OpenValue,
// ClosePrice -> CloseValue, then the two return series.
func (e *Engine) Run(in model.Inputs) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	dates, err := model.NewDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	target := strings.ToUpper(in.TargetCurrency)
	positions := in.Positions
	conv := NewConverter(in.FxRates, target)

	began := time.Now()
	res := &Result{
		Dates:          dates,
		TargetCurrency: target,
		Positions:      positions,
	}

	res.IsOpen = IsOpen(positions, dates)
	if res.Price, err = Price(positions, dates, in.Prices, conv); err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	res.Quantity = Quantity(positions, res.IsOpen)
	res.Value = Value(positions, res.Price, res.Quantity)

	if res.OpenPrice, err = OpenPrice(positions, dates, conv); err != nil {
		return nil, fmt.Errorf("open price: %w", err)
	}
	res.OpenValue = OpenValue(positions, dates, res.OpenPrice)

	if res.ClosePrice, err = ClosePrice(positions, dates, conv); err != nil {
		return nil, fmt.Errorf("close price: %w", err)
	}
	res.CloseValue = CloseValue(positions, dates, res.ClosePrice)

	res.ReturnPerPeriod = ReturnPerPeriod(positions, dates, res.Value, res.OpenValue, res.CloseValue)
	res.ReturnPerPeriodPercentage = ReturnPerPeriodPercentage(positions, dates, res.Value, res.OpenValue, res.CloseValue)

	e.log.Debug().
		Int("positions", len(positions)).
		Int("dates", len(dates)).
		Str("target_currency", target).
		Dur("duration", time.Since(began)).
		Msg("metrics computed")

	return res, nil
}
