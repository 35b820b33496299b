package metrics

import (
	"portfolio-metrics/internal/model"

	"gonum.org/v1/gonum/floats"
)

// periods holds the start and end value of each date's holding period for one
// position. Inactive dates have start = end = 0.
type periods struct {
	start []float64
	end   []float64
}

// holdingPeriods derives start/end values per date:
//
//	start: OpenValue on the open date, the same day's Value on the first date of
//	       the range, otherwise the previous day's Value.
//	end:   CloseValue on the close date, otherwise the same day's Value.
//
// Dates before the open date or after the close date are inactive.
func holdingPeriods(p model.Position, dates model.DateRange, value, openValue, closeValue []float64) periods {
	out := periods{
		start: make([]float64, len(dates)),
		end:   make([]float64, len(dates)),
	}
	for i, d := range dates {
		if !p.ActiveOn(d) {
			continue
		}
		switch {
		case d.Equal(p.OpenDate):
			out.start[i] = openValue[i]
		case i == 0:
			out.start[i] = value[i]
		default:
			out.start[i] = value[i-1]
		}
		if p.Closed() && d.Equal(p.CloseDate) {
			out.end[i] = closeValue[i]
		} else {
			out.end[i] = value[i]
		}
	}
	return out
}

func positionPeriods(positions []model.Position, dates model.DateRange, value, openValue, closeValue model.MetricSeries) []periods {
	out := make([]periods, len(positions))
	for k, p := range positions {
		out[k] = holdingPeriods(p, dates, value.Positions[p.ID], openValue.Positions[p.ID], closeValue.Positions[p.ID])
	}
	return out
}

// ReturnPerPeriod is end - start for each date. The basket is the sum of the
// per-position deltas, not the delta of the basket Value, so positions entering or
// leaving mid-range do not show up as returns.
func ReturnPerPeriod(positions []model.Position, dates model.DateRange, value, openValue, closeValue model.MetricSeries) model.MetricSeries {
	out := model.NewMetricSeries(len(dates))
	for k, per := range positionPeriods(positions, dates, value, openValue, closeValue) {
		out.Positions[positions[k].ID] = deltas(per)
	}
	out.Basket = BasketSum(rows(out, positions), len(dates))
	return out
}

// ReturnPerPeriodPercentage is (end - start) / start for each date, 0 when start is 0.
// The basket is the value-weighted return: summed deltas over summed start values.
func ReturnPerPeriodPercentage(positions []model.Position, dates model.DateRange, value, openValue, closeValue model.MetricSeries) model.MetricSeries {
	n := len(dates)
	out := model.NewMetricSeries(n)
	numerators := make([][]float64, 0, len(positions))
	denominators := make([][]float64, 0, len(positions))
	for k, per := range positionPeriods(positions, dates, value, openValue, closeValue) {
		d := deltas(per)
		pct := make([]float64, n)
		for i := range pct {
			if per.start[i] != 0 {
				pct[i] = d[i] / per.start[i]
			}
		}
		out.Positions[positions[k].ID] = pct
		numerators = append(numerators, d)
		denominators = append(denominators, per.start)
	}
	out.Basket = BasketWeightedReturn(numerators, denominators, n)
	return out
}

func deltas(per periods) []float64 {
	return floats.SubTo(make([]float64, len(per.start)), per.end, per.start)
}
