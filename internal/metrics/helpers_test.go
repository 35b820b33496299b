package metrics

import (
	"testing"
	"time"

	"portfolio-metrics/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

type positionSpec struct {
	id         int
	open       string
	close      string
	openPrice  float64
	closePrice *float64
	quantity   float64
	instrument int
	currency   string
}

func newPosition(t *testing.T, s positionSpec) model.Position {
	t.Helper()
	r := model.PositionRecord{
		ID:                 s.id,
		OpenDate:           s.open,
		CloseDate:          s.close,
		OpenPrice:          decimal.NewFromFloat(s.openPrice),
		Quantity:           decimal.NewFromFloat(s.quantity),
		InstrumentID:       s.instrument,
		InstrumentCurrency: s.currency,
	}
	if s.closePrice != nil {
		r.ClosePrice = decimal.NewNullDecimal(decimal.NewFromFloat(*s.closePrice))
	}
	p, err := model.NewPosition(r)
	require.NoError(t, err)
	return p
}

func ptr(v float64) *float64 { return &v }

// dailyPrices builds a price series starting at start with one observation per day.
func dailyPrices(t *testing.T, start string, values ...float64) []model.PricePoint {
	t.Helper()
	d := day(t, start)
	out := make([]model.PricePoint, len(values))
	for i, v := range values {
		out[i] = model.PricePoint{Date: model.FormatDate(d.AddDate(0, 0, i)), Price: v}
	}
	return out
}

type priced struct {
	position model.Position
	series   []model.PricePoint
}

func priceTable(entries ...priced) model.PriceTable {
	out := model.PriceTable{}
	for _, e := range entries {
		out[e.position.ID] = map[string][]model.PricePoint{e.position.InstrumentKey(): e.series}
	}
	return out
}

func dateRange(t *testing.T, start, end string) model.DateRange {
	t.Helper()
	r, err := model.NewDateRange(day(t, start), day(t, end))
	require.NoError(t, err)
	return r
}
