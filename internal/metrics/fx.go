package metrics

import (
	"time"

	"portfolio-metrics/internal/model"
)

// fallbackFxRate is applied when a present pair has no observation for a date.
const fallbackFxRate = 1.0

// Converter resolves the FX series a position needs to reach the target currency.
// Pair indexes are built once per engine run.
type Converter struct {
	fx     model.FxRateTable
	target string
	pairs  map[string]model.DailyIndex
}

func NewConverter(fx model.FxRateTable, target string) *Converter {
	return &Converter{
		fx:     fx,
		target: target,
		pairs:  make(map[string]model.DailyIndex),
	}
}

// Rates returns the daily rates for p's currency. A nil index with a nil error means
// the position is already in the target currency. A pair absent from the table is fatal.
func (c *Converter) Rates(p model.Position) (model.DailyIndex, error) {
	if p.InstrumentCurrency == c.target {
		return nil, nil
	}
	key := model.PairKey(p.InstrumentCurrency, c.target)
	if ix, ok := c.pairs[key]; ok {
		return ix, nil
	}
	ix, ok := c.fx.Pair(key)
	if !ok {
		return nil, &model.MissingFxPairError{Pair: key, PositionID: p.ID}
	}
	c.pairs[key] = ix
	return ix, nil
}

// ToTarget converts a local-currency amount using the rate observed exactly on d.
// This is the only place the missing-rate fallback is applied.
func ToTarget(amount float64, rates model.DailyIndex, d time.Time) float64 {
	if rates == nil {
		return amount
	}
	rate, ok := rates.On(d)
	if !ok {
		rate = fallbackFxRate
	}
	return amount * rate
}
