package analysis

import (
	"math"
	"sort"

	"portfolio-metrics/internal/metrics"

	"gonum.org/v1/gonum/stat"
)

// PositionSummary condenses one position's metric series into figures you can rank on.
type PositionSummary struct {
	ID int

	DaysOpen      int
	FirstOpenDate string
	LastOpenDate  string

	// FinalValue is the target-currency value on the last open day.
	FinalValue float64

	// TotalReturn is the sum of ReturnPerPeriod over the range.
	TotalReturn float64
	// CompoundedReturn chains the daily percentages: prod(1+r) - 1.
	CompoundedReturn float64

	MeanDailyReturn float64
	P05DailyReturn  float64
	P95DailyReturn  float64
}

// Summarize builds a summary for every position in the report, ordered by id.
func Summarize(report *metrics.Report) []PositionSummary {
	ids := report.PositionIDs()
	out := make([]PositionSummary, 0, len(ids))
	for _, id := range ids {
		s := summarizeSet(report.Positions[id], report.Dates)
		s.ID = id
		out = append(out, s)
	}
	return out
}

// SummarizeBasket summarizes the basket series. The returned ID is 0.
func SummarizeBasket(report *metrics.Report) PositionSummary {
	return summarizeSet(report.Basket, report.Dates)
}

func summarizeSet(set metrics.MetricSet, dates []string) PositionSummary {
	s := PositionSummary{}
	growth := 1.0
	var daily []float64
	for i := range dates {
		if i < len(set.IsOpen) && set.IsOpen[i] > 0 {
			s.DaysOpen++
			if s.FirstOpenDate == "" {
				s.FirstOpenDate = dates[i]
			}
			s.LastOpenDate = dates[i]
			s.FinalValue = at(set.Value, i)
			daily = append(daily, at(set.ReturnPerPeriodPercentage, i))
		}
		s.TotalReturn += at(set.ReturnPerPeriod, i)
		// inactive days carry a zero percentage and leave the product unchanged
		growth *= 1 + at(set.ReturnPerPeriodPercentage, i)
	}
	s.CompoundedReturn = growth - 1

	if len(daily) > 0 {
		s.MeanDailyReturn = stat.Mean(daily, nil)
		sort.Float64s(daily)
		s.P05DailyReturn = stat.Quantile(0.05, stat.LinInterp, daily, nil)
		s.P95DailyReturn = stat.Quantile(0.95, stat.LinInterp, daily, nil)
	}
	return s
}

func at(series []float64, i int) float64 {
	if i >= len(series) || math.IsNaN(series[i]) {
		return 0
	}
	return series[i]
}
