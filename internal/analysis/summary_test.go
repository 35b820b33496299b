package analysis

import (
	"testing"

	"portfolio-metrics/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() *metrics.Report {
	return &metrics.Report{
		Dates: []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"},
		Positions: map[int]metrics.MetricSet{
			// opened on day 1, closed on day 3
			1: {
				IsOpen:                    []float64{1, 1, 0, 0},
				Price:                     []float64{10, 11, 0, 0},
				Value:                     []float64{100, 110, 0, 0},
				ReturnPerPeriod:           []float64{0, 10, 11, 0},
				ReturnPerPeriodPercentage: []float64{0, 0.1, 0.1, 0},
			},
			2: {
				IsOpen:                    []float64{0, 1, 1, 1},
				Price:                     []float64{0, 5, 5, 6},
				Value:                     []float64{0, 50, 50, 60},
				ReturnPerPeriod:           []float64{0, 0, 0, 10},
				ReturnPerPeriodPercentage: []float64{0, 0, 0, 0.2},
			},
			3: {
				IsOpen:                    []float64{0, 0, 0, 0},
				Price:                     []float64{0, 0, 0, 0},
				Value:                     []float64{0, 0, 0, 0},
				ReturnPerPeriod:           []float64{0, 0, 0, 0},
				ReturnPerPeriodPercentage: []float64{0, 0, 0, 0},
			},
		},
		Basket: metrics.MetricSet{
			IsOpen:                    []float64{1, 1, 1, 1},
			Value:                     []float64{100, 160, 50, 60},
			ReturnPerPeriod:           []float64{0, 10, 11, 10},
			ReturnPerPeriodPercentage: []float64{0, 0.1, 0.22, 0.2},
		},
	}
}

func TestSummarize(t *testing.T) {
	summaries := Summarize(testReport())
	require.Len(t, summaries, 3)

	first := summaries[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, first.DaysOpen)
	assert.Equal(t, "2024-01-01", first.FirstOpenDate)
	assert.Equal(t, "2024-01-02", first.LastOpenDate)
	assert.Equal(t, 110.0, first.FinalValue)
	assert.Equal(t, 21.0, first.TotalReturn)
	assert.InDelta(t, 0.21, first.CompoundedReturn, 1e-12)
	assert.InDelta(t, 0.05, first.MeanDailyReturn, 1e-12)

	second := summaries[1]
	assert.Equal(t, 3, second.DaysOpen)
	assert.Equal(t, 60.0, second.FinalValue)
	assert.InDelta(t, 0.2, second.CompoundedReturn, 1e-12)
	assert.Greater(t, second.P95DailyReturn, 0.0)
	assert.LessOrEqual(t, second.P95DailyReturn, 0.2)
	assert.Equal(t, 0.0, second.P05DailyReturn)

	never := summaries[2]
	assert.Zero(t, never.DaysOpen)
	assert.Empty(t, never.FirstOpenDate)
	assert.Zero(t, never.CompoundedReturn)
	assert.Zero(t, never.MeanDailyReturn)
}

func TestSummarizeBasket(t *testing.T) {
	s := SummarizeBasket(testReport())
	assert.Equal(t, 0, s.ID)
	assert.Equal(t, 4, s.DaysOpen)
	assert.Equal(t, 60.0, s.FinalValue)
	assert.Equal(t, 31.0, s.TotalReturn)
	assert.InDelta(t, 1.1*1.22*1.2-1, s.CompoundedReturn, 1e-12)
}

func TestRankByTotalReturn(t *testing.T) {
	ranked := RankByTotalReturn(testReport())
	ids := make([]int, len(ranked))
	for i, s := range ranked {
		ids[i] = s.ID
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestRankByCompoundedReturn(t *testing.T) {
	ranked := RankByCompoundedReturn(testReport())
	ids := make([]int, len(ranked))
	for i, s := range ranked {
		ids[i] = s.ID
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestRankTiesByID(t *testing.T) {
	report := &metrics.Report{
		Dates: []string{"2024-01-01"},
		Positions: map[int]metrics.MetricSet{
			9: {IsOpen: []float64{1}, ReturnPerPeriod: []float64{5}, ReturnPerPeriodPercentage: []float64{0}},
			4: {IsOpen: []float64{1}, ReturnPerPeriod: []float64{5}, ReturnPerPeriodPercentage: []float64{0}},
		},
	}
	ranked := RankByTotalReturn(report)
	require.Len(t, ranked, 2)
	assert.Equal(t, 4, ranked[0].ID)
	assert.Equal(t, 9, ranked[1].ID)
}
