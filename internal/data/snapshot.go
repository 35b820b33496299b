package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"portfolio-metrics/internal/model"
)

// Snapshot is a saved copy of provider market data so calculations can run offline.
type Snapshot struct {
	StartDate      string                        `json:"start_date"`
	EndDate        string                        `json:"end_date"`
	TargetCurrency string                        `json:"target_currency"`
	UpdatedAt      time.Time                     `json:"updated_at"`
	FxRates        model.FxRateTable             `json:"fx_rates"`
	Prices         map[string][]model.PricePoint `json:"prices"` // keyed by instrument id
}

// FetchSnapshot pulls market data for positions from the provider into a snapshot.
func FetchSnapshot(ctx context.Context, c *Client, positions []model.Position, start, end time.Time, target string) (*Snapshot, error) {
	target = strings.ToUpper(target)
	fx, err := c.FxRates(ctx, CurrencyPairs(positions, target), start, end)
	if err != nil {
		return nil, err
	}
	prices, err := c.instrumentPrices(ctx, positions, start, end)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		StartDate:      model.FormatDate(start),
		EndDate:        model.FormatDate(end),
		TargetCurrency: target,
		UpdatedAt:      time.Now().UTC(),
		FxRates:        fx,
		Prices:         prices,
	}, nil
}

// SaveSnapshot writes the snapshot as indented JSON, creating parent directories.
func SaveSnapshot(path string, s *Snapshot) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if s.FxRates == nil {
		s.FxRates = model.FxRateTable{}
	}
	return &s, nil
}

// MarketData serves market data from the snapshot. The snapshot must cover the
// requested range and have been taken for the same target currency.
func (s *Snapshot) MarketData(_ context.Context, positions []model.Position, start, end time.Time, target string) (*MarketData, error) {
	if !strings.EqualFold(s.TargetCurrency, target) {
		return nil, fmt.Errorf("snapshot was taken for %s, requested %s", s.TargetCurrency, strings.ToUpper(target))
	}
	from, err := model.ParseDate(s.StartDate)
	if err != nil {
		return nil, fmt.Errorf("snapshot start_date: %w", err)
	}
	to, err := model.ParseDate(s.EndDate)
	if err != nil {
		return nil, fmt.Errorf("snapshot end_date: %w", err)
	}
	if start.Before(from) || end.After(to) {
		return nil, fmt.Errorf("snapshot covers %s..%s, requested %s..%s",
			s.StartDate, s.EndDate, model.FormatDate(start), model.FormatDate(end))
	}
	return &MarketData{
		FxRates: s.FxRates,
		Prices:  PriceTableFor(positions, s.Prices),
	}, nil
}
