package metrics

import (
	"portfolio-metrics/internal/model"
)

// OpenPrice converts each position's open price at the rate observed on its open
// date and replicates it across the range. The basket is zero, as for Price.
func OpenPrice(positions []model.Position, dates model.DateRange, conv *Converter) (model.MetricSeries, error) {
	out := model.NewMetricSeries(len(dates))
	for _, p := range positions {
		rates, err := conv.Rates(p)
		if err != nil {
			return model.MetricSeries{}, err
		}
		price := ToTarget(p.OpenPrice.InexactFloat64(), rates, p.OpenDate)
		out.Positions[p.ID] = constant(price, len(dates))
	}
	out.Basket = BasketZero(len(dates))
	return out, nil
}

// OpenValue is quantity x OpenPrice from the open date onwards, 0 before it.
func OpenValue(positions []model.Position, dates model.DateRange, openPrice model.MetricSeries) model.MetricSeries {
	out := model.NewMetricSeries(len(dates))
	for _, p := range positions {
		q := p.Quantity.InexactFloat64()
		prices := openPrice.Positions[p.ID]
		series := make([]float64, len(dates))
		for i, d := range dates {
			if !d.Before(p.OpenDate) {
				series[i] = q * prices[i]
			}
		}
		out.Positions[p.ID] = series
	}
	out.Basket = BasketSum(rows(out, positions), len(dates))
	return out
}

// ClosePrice converts each position's close price at the rate observed on its close
// date and replicates it across the range. Positions without a close date or close
// price get 0.
func ClosePrice(positions []model.Position, dates model.DateRange, conv *Converter) (model.MetricSeries, error) {
	out := model.NewMetricSeries(len(dates))
	for _, p := range positions {
		price := 0.0
		if p.Closed() && p.ClosePrice.Valid {
			rates, err := conv.Rates(p)
			if err != nil {
				return model.MetricSeries{}, err
			}
			price = ToTarget(p.ClosePrice.Decimal.InexactFloat64(), rates, p.CloseDate)
		}
		out.Positions[p.ID] = constant(price, len(dates))
	}
	out.Basket = BasketZero(len(dates))
	return out, nil
}

// CloseValue is quantity x ClosePrice from the close date onwards, 0 before it and
// for positions that never close.
func CloseValue(positions []model.Position, dates model.DateRange, closePrice model.MetricSeries) model.MetricSeries {
	out := model.NewMetricSeries(len(dates))
	for _, p := range positions {
		q := p.Quantity.InexactFloat64()
		prices := closePrice.Positions[p.ID]
		series := make([]float64, len(dates))
		if p.Closed() {
			for i, d := range dates {
				if !d.Before(p.CloseDate) {
					series[i] = q * prices[i]
				}
			}
		}
		out.Positions[p.ID] = series
	}
	out.Basket = BasketSum(rows(out, positions), len(dates))
	return out
}

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
