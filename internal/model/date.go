package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used on the wire and in output series.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateRange is the ordered sequence of calendar days from start to end inclusive.
// Every metric series is index-aligned to it.
type DateRange []time.Time

// NewDateRange builds the inclusive range [start, end]. Weekends and holidays are
// ordinary days.
func NewDateRange(start, end time.Time) (DateRange, error) {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return nil, &ValidationError{Field: "end_date", Reason: fmt.Sprintf("%s is before start_date %s", FormatDate(end), FormatDate(start))}
	}
	days := int(end.Sub(start).Hours()/24) + 1
	out := make(DateRange, days)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out, nil
}

// Strings returns the dates as YYYY-MM-DD strings.
func (r DateRange) Strings() []string {
	out := make([]string, len(r))
	for i, d := range r {
		out[i] = FormatDate(d)
	}
	return out
}

// First returns the first date in the range.
func (r DateRange) First() time.Time {
	if len(r) == 0 {
		return time.Time{}
	}
	return r[0]
}

// Last returns the last date in the range.
func (r DateRange) Last() time.Time {
	if len(r) == 0 {
		return time.Time{}
	}
	return r[len(r)-1]
}
