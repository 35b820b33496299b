package metrics

import (
	"math"

	"portfolio-metrics/internal/model"

	"gonum.org/v1/gonum/floats"
)

// rows returns each position's series in positions order.
func rows(s model.MetricSeries, positions []model.Position) [][]float64 {
	out := make([][]float64, 0, len(positions))
	for _, p := range positions {
		out = append(out, s.Positions[p.ID])
	}
	return out
}

// BasketSum adds the series element-wise. Used for Quantity, Value, OpenValue,
// CloseValue and ReturnPerPeriod.
func BasketSum(series [][]float64, n int) []float64 {
	out := make([]float64, n)
	for _, s := range series {
		floats.Add(out, s)
	}
	return out
}

// BasketMax takes the element-wise maximum, starting from zero. Used for IsOpen,
// where the basket is open when any position is.
func BasketMax(series [][]float64, n int) []float64 {
	out := make([]float64, n)
	for _, s := range series {
		for t, v := range s {
			out[t] = math.Max(out[t], v)
		}
	}
	return out
}

// BasketZero is the placeholder basket for per-unit prices, which do not aggregate.
func BasketZero(n int) []float64 {
	return make([]float64, n)
}

// BasketWeightedReturn divides the summed numerators by the summed denominators at
// each date: a value-weighted return rather than a mean of ratios. Zero when the
// denominator sum is zero.
func BasketWeightedReturn(numerators, denominators [][]float64, n int) []float64 {
	num := BasketSum(numerators, n)
	den := BasketSum(denominators, n)
	out := make([]float64, n)
	for t := range out {
		if den[t] != 0 {
			out[t] = num[t] / den[t]
		}
	}
	return out
}
