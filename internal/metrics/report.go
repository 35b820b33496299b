package metrics

import (
	"fmt"
	"sort"

	"portfolio-metrics/internal/model"
)

// MetricSet is the five reported series for one position or for the basket.
// Field names are the wire contract with the submission endpoint.
type MetricSet struct {
	IsOpen                    []float64 `json:"IsOpen"`
	Price                     []float64 `json:"Price"`
	Value                     []float64 `json:"Value"`
	ReturnPerPeriod           []float64 `json:"ReturnPerPeriod"`
	ReturnPerPeriodPercentage []float64 `json:"ReturnPerPeriodPercentage"`
}

// Series returns the series for a reported metric name.
func (m MetricSet) Series(name string) ([]float64, error) {
	switch name {
	case model.MetricIsOpen:
		return m.IsOpen, nil
	case model.MetricPrice:
		return m.Price, nil
	case model.MetricValue:
		return m.Value, nil
	case model.MetricReturnPerPeriod:
		return m.ReturnPerPeriod, nil
	case model.MetricReturnPerPeriodPercentage:
		return m.ReturnPerPeriodPercentage, nil
	default:
		return nil, fmt.Errorf("unknown metric %q", name)
	}
}

// Report is the engine output as serialized for submission.
type Report struct {
	Positions map[int]MetricSet `json:"positions"`
	Basket    MetricSet         `json:"basket"`
	Dates     []string          `json:"dates"`
}

// PositionIDs returns the position ids in ascending order.
func (r *Report) PositionIDs() []int {
	ids := make([]int, 0, len(r.Positions))
	for id := range r.Positions {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Report assembles the reported metrics. Quantity and the open/close series are
// intermediate and not included.
func (r *Result) Report() *Report {
	out := &Report{
		Positions: make(map[int]MetricSet, len(r.Positions)),
		Dates:     r.Dates.Strings(),
	}
	for _, p := range r.Positions {
		out.Positions[p.ID] = MetricSet{
			IsOpen:                    r.IsOpen.Positions[p.ID],
			Price:                     r.Price.Positions[p.ID],
			Value:                     r.Value.Positions[p.ID],
			ReturnPerPeriod:           r.ReturnPerPeriod.Positions[p.ID],
			ReturnPerPeriodPercentage: r.ReturnPerPeriodPercentage.Positions[p.ID],
		}
	}
	out.Basket = MetricSet{
		IsOpen:                    r.IsOpen.Basket,
		Price:                     r.Price.Basket,
		Value:                     r.Value.Basket,
		ReturnPerPeriod:           r.ReturnPerPeriod.Basket,
		ReturnPerPeriodPercentage: r.ReturnPerPeriodPercentage.Basket,
	}
	return out
}
