package metrics

import (
	"portfolio-metrics/internal/model"

	"gonum.org/v1/gonum/floats"
)

// Value is Price x Quantity per date.
func Value(positions []model.Position, price, quantity model.MetricSeries) model.MetricSeries {
	n := len(quantity.Basket)
	out := model.NewMetricSeries(n)
	for _, p := range positions {
		series := make([]float64, n)
		floats.MulTo(series, price.Positions[p.ID], quantity.Positions[p.ID])
		out.Positions[p.ID] = series
	}
	out.Basket = BasketSum(rows(out, positions), n)
	return out
}
