package data

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"portfolio-metrics/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fx-rates":
			fmt.Fprint(w, `{"GBPEUR":[{"date":"2024-01-01","rate":1.15}]}`)
		case "/prices":
			fmt.Fprint(w, `{"5":[{"date":"2024-01-01","price":3}]}`)
		}
	}))
	positions := []model.Position{holding(t, 1, 5, "GBP")}

	snap, err := FetchSnapshot(context.Background(), client, positions, day(t, "2024-01-01"), day(t, "2024-01-31"), "eur")
	require.NoError(t, err)
	assert.Equal(t, "EUR", snap.TargetCurrency)
	assert.False(t, snap.UpdatedAt.IsZero())

	path := filepath.Join(t.TempDir(), "nested", "snapshot.json")
	require.NoError(t, SaveSnapshot(path, snap))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap.StartDate, loaded.StartDate)
	assert.Equal(t, snap.EndDate, loaded.EndDate)
	assert.Equal(t, snap.FxRates, loaded.FxRates)
	assert.Equal(t, snap.Prices, loaded.Prices)

	md, err := loaded.MarketData(context.Background(), positions, day(t, "2024-01-01"), day(t, "2024-01-15"), "EUR")
	require.NoError(t, err)
	assert.Equal(t, 3.0, md.Prices[1]["5"][0].Price)
	assert.Equal(t, 1.15, md.FxRates["GBPEUR"][0].Rate)
}

func TestSnapshot_MarketDataRejectsMismatch(t *testing.T) {
	snap := &Snapshot{
		StartDate:      "2024-01-01",
		EndDate:        "2024-01-31",
		TargetCurrency: "USD",
		FxRates:        model.FxRateTable{},
	}
	var src Source = snap

	_, err := src.MarketData(context.Background(), nil, day(t, "2024-01-01"), day(t, "2024-01-31"), "EUR")
	assert.ErrorContains(t, err, "taken for USD")

	_, err = src.MarketData(context.Background(), nil, day(t, "2023-12-31"), day(t, "2024-01-31"), "USD")
	assert.ErrorContains(t, err, "snapshot covers")

	_, err = src.MarketData(context.Background(), nil, day(t, "2024-01-05"), day(t, "2024-01-20"), "usd")
	assert.NoError(t, err)
}
