package metrics

import (
	"portfolio-metrics/internal/model"
)

// missingPrice is used for a date with no observation inside a present series.
const missingPrice = 0.0

// Price converts each position's daily local price to the target currency. Before
// the open date the price is 0 regardless of the table. A position whose instrument
// has no series at all fails the whole calculation. The basket is always zero.
func Price(positions []model.Position, dates model.DateRange, prices model.PriceTable, conv *Converter) (model.MetricSeries, error) {
	out := model.NewMetricSeries(len(dates))
	for _, p := range positions {
		local, ok := prices.Series(p.ID, p.InstrumentKey())
		if !ok {
			return model.MetricSeries{}, &model.MissingPriceDataError{
				PositionID:   p.ID,
				InstrumentID: p.InstrumentID,
				Currency:     p.InstrumentCurrency,
			}
		}
		rates, err := conv.Rates(p)
		if err != nil {
			return model.MetricSeries{}, err
		}

		series := make([]float64, len(dates))
		for i, d := range dates {
			if d.Before(p.OpenDate) {
				continue
			}
			price, ok := local.On(d)
			if !ok {
				price = missingPrice
			}
			series[i] = ToTarget(price, rates, d)
		}
		out.Positions[p.ID] = series
	}
	out.Basket = BasketZero(len(dates))
	return out, nil
}
