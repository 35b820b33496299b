package analysis

import (
	"sort"

	"portfolio-metrics/internal/metrics"
)

// RankByTotalReturn summarizes the report and sorts descending by TotalReturn.
// Ties are broken by ascending position id.
func RankByTotalReturn(report *metrics.Report) []PositionSummary {
	out := Summarize(report)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalReturn != out[j].TotalReturn {
			return out[i].TotalReturn > out[j].TotalReturn
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// RankByCompoundedReturn sorts descending by CompoundedReturn, ties by id.
func RankByCompoundedReturn(report *metrics.Report) []PositionSummary {
	out := Summarize(report)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CompoundedReturn != out[j].CompoundedReturn {
			return out[i].CompoundedReturn > out[j].CompoundedReturn
		}
		return out[i].ID < out[j].ID
	})
	return out
}
