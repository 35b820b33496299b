package metrics

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"portfolio-metrics/internal/model"
)

// WriteReportCSV writes the report in long format, one row per
// (date, scope, position, metric).
func WriteReportCSV(path string, report *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return EncodeReportCSV(f, report)
}

func EncodeReportCSV(out io.Writer, report *Report) error {
	w := csv.NewWriter(out)

	header := []string{
		"date",
		"scope",
		"position_id",
		"metric",
		"value",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	ids := report.PositionIDs()
	for i, date := range report.Dates {
		for _, id := range ids {
			if err := writeSet(w, date, "position", strconv.Itoa(id), report.Positions[id], i); err != nil {
				return err
			}
		}
		if err := writeSet(w, date, "basket", "", report.Basket, i); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeSet(w *csv.Writer, date, scope, id string, set MetricSet, i int) error {
	for _, name := range model.ReportedMetrics {
		series, err := set.Series(name)
		if err != nil {
			return err
		}
		row := []string{date, scope, id, name, fmtFloat(series[i])}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
