package data

import (
	"context"
	"sort"
	"strings"
	"time"

	"portfolio-metrics/internal/model"
)

// MarketData is everything the engine needs besides the positions themselves.
type MarketData struct {
	FxRates model.FxRateTable
	Prices  model.PriceTable
}

// Source resolves market data for a set of positions over a date range.
// The provider client and a loaded snapshot both implement it.
type Source interface {
	MarketData(ctx context.Context, positions []model.Position, start, end time.Time, target string) (*MarketData, error)
}

// CurrencyPairs returns the sorted, distinct pair keys needed to convert every
// position into target. Positions already quoted in target need no pair.
func CurrencyPairs(positions []model.Position, target string) []string {
	target = strings.ToUpper(target)
	seen := make(map[string]struct{})
	var pairs []string
	for _, p := range positions {
		if p.InstrumentCurrency == target {
			continue
		}
		key := model.PairKey(p.InstrumentCurrency, target)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		pairs = append(pairs, key)
	}
	sort.Strings(pairs)
	return pairs
}

// Instruments returns the sorted, distinct instrument ids held by the positions.
func Instruments(positions []model.Position) []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, p := range positions {
		if _, ok := seen[p.InstrumentID]; ok {
			continue
		}
		seen[p.InstrumentID] = struct{}{}
		ids = append(ids, p.InstrumentID)
	}
	sort.Ints(ids)
	return ids
}

// PriceTableFor assigns instrument-level series to every position holding the
// instrument. Instruments missing from byInstrument are left out, so the engine
// reports them as missing price data.
func PriceTableFor(positions []model.Position, byInstrument map[string][]model.PricePoint) model.PriceTable {
	table := make(model.PriceTable, len(positions))
	for _, p := range positions {
		key := p.InstrumentKey()
		series, ok := byInstrument[key]
		if !ok {
			continue
		}
		table[p.ID] = map[string][]model.PricePoint{key: series}
	}
	return table
}

// MarketData fetches FX rates for all required pairs in one request and prices
// with one request per distinct instrument.
func (c *Client) MarketData(ctx context.Context, positions []model.Position, start, end time.Time, target string) (*MarketData, error) {
	pairs := CurrencyPairs(positions, target)
	fx, err := c.FxRates(ctx, pairs, start, end)
	if err != nil {
		return nil, err
	}

	byInstrument, err := c.instrumentPrices(ctx, positions, start, end)
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Int("pairs", len(pairs)).
		Int("instruments", len(byInstrument)).
		Msg("market data fetched")

	return &MarketData{
		FxRates: fx,
		Prices:  PriceTableFor(positions, byInstrument),
	}, nil
}

func (c *Client) instrumentPrices(ctx context.Context, positions []model.Position, start, end time.Time) (map[string][]model.PricePoint, error) {
	byInstrument := make(map[string][]model.PricePoint)
	for _, id := range Instruments(positions) {
		prices, err := c.Prices(ctx, id, start, end)
		if err != nil {
			return nil, err
		}
		for key, series := range prices {
			byInstrument[key] = series
		}
	}
	return byInstrument, nil
}
