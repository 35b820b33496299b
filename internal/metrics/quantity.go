package metrics

import "portfolio-metrics/internal/model"

// Quantity is the held quantity while open and 0 otherwise.
func Quantity(positions []model.Position, isOpen model.MetricSeries) model.MetricSeries {
	n := len(isOpen.Basket)
	out := model.NewMetricSeries(n)
	for _, p := range positions {
		q := p.Quantity.InexactFloat64()
		flags := isOpen.Positions[p.ID]
		series := make([]float64, n)
		for i := range series {
			if flags[i] != 0 {
				series[i] = q
			}
		}
		out.Positions[p.ID] = series
	}
	out.Basket = BasketSum(rows(out, positions), n)
	return out
}
