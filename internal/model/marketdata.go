package model

import "time"

// FxRate is one daily observation of a currency pair.
type FxRate struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// PricePoint is one daily local-currency price observation.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// FxRateTable maps a pair key (source+target, e.g. "EURUSD") to its observations.
type FxRateTable map[string][]FxRate

// PriceTable maps position id -> instrument id (as string) -> observations.
type PriceTable map[int]map[string][]PricePoint

// PairKey builds the FX table key for converting from into to.
func PairKey(from, to string) string {
	return from + to
}

// DailyIndex maps a YYYY-MM-DD date to an observed value.
type DailyIndex map[string]float64

// On returns the value observed exactly on d.
func (ix DailyIndex) On(d time.Time) (float64, bool) {
	v, ok := ix[FormatDate(d)]
	return v, ok
}

// Pair returns the indexed series for a pair. ok is false when the pair is absent
// from the table, which is distinct from a present pair missing a single date.
func (t FxRateTable) Pair(key string) (DailyIndex, bool) {
	series, ok := t[key]
	if !ok {
		return nil, false
	}
	ix := make(DailyIndex, len(series))
	for _, r := range series {
		// first observation wins on duplicate dates
		if _, dup := ix[r.Date]; !dup {
			ix[r.Date] = r.Rate
		}
	}
	return ix, true
}

// Series returns the indexed price series for a position's instrument. ok is false
// when either the position or the instrument is absent.
func (t PriceTable) Series(positionID int, instrumentKey string) (DailyIndex, bool) {
	byInstrument, ok := t[positionID]
	if !ok {
		return nil, false
	}
	series, ok := byInstrument[instrumentKey]
	if !ok {
		return nil, false
	}
	ix := make(DailyIndex, len(series))
	for _, p := range series {
		if _, dup := ix[p.Date]; !dup {
			ix[p.Date] = p.Price
		}
	}
	return ix, true
}
