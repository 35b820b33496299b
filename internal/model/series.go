package model

// Metric names as they appear in the reported output. Keep these stable; the
// downstream submission endpoint matches on them.
const (
	MetricIsOpen                    = "IsOpen"
	MetricPrice                     = "Price"
	MetricValue                     = "Value"
	MetricReturnPerPeriod           = "ReturnPerPeriod"
	MetricReturnPerPeriodPercentage = "ReturnPerPeriodPercentage"
)

// ReportedMetrics lists the metrics included in the engine output, in output order.
var ReportedMetrics = []string{
	MetricIsOpen,
	MetricPrice,
	MetricValue,
	MetricReturnPerPeriod,
	MetricReturnPerPeriodPercentage,
}

// MetricSeries is the shape shared by every sub-calculation: one value per date
// index for each position, plus the basket aggregate.
type MetricSeries struct {
	Positions map[int][]float64
	Basket    []float64
}

// NewMetricSeries allocates an empty series for n dates.
func NewMetricSeries(n int) MetricSeries {
	return MetricSeries{
		Positions: make(map[int][]float64),
		Basket:    make([]float64, n),
	}
}
