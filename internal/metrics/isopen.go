package metrics

import "portfolio-metrics/internal/model"

// IsOpen flags each date with 1 while the position is held (open_date <= t < close_date)
// and 0 otherwise. The basket is open when any position is open.
func IsOpen(positions []model.Position, dates model.DateRange) model.MetricSeries {
	out := model.NewMetricSeries(len(dates))
	for _, p := range positions {
		flags := make([]float64, len(dates))
		for i, d := range dates {
			if p.OpenOn(d) {
				flags[i] = 1
			}
		}
		out.Positions[p.ID] = flags
	}
	out.Basket = BasketMax(rows(out, positions), len(dates))
	return out
}
