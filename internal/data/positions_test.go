package data

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portfolio-metrics/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const positionsJSON = `[
  {
    "id": 1,
    "open_date": "2023-03-01",
    "close_date": null,
    "open_price": 150.25,
    "close_price": null,
    "quantity": 10,
    "transaction_costs": 1.5,
    "instrument_id": 7,
    "instrument_currency": "usd",
    "open_transaction_type": "BUY",
    "close_transaction_type": null
  },
  {
    "id": 2,
    "open_date": "2023-01-10",
    "close_date": "2023-06-30",
    "open_price": 80,
    "close_price": 95.5,
    "quantity": 3,
    "transaction_costs": 0,
    "instrument_id": 9,
    "instrument_currency": "EUR",
    "open_transaction_type": "BUY",
    "close_transaction_type": "SELL"
  }
]`

func TestLoadPositions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "positions.json")
	require.NoError(t, os.WriteFile(path, []byte(positionsJSON), 0o644))

	positions, err := LoadPositions(path)
	require.NoError(t, err)
	require.Len(t, positions, 2)

	assert.Equal(t, "USD", positions[0].InstrumentCurrency)
	assert.False(t, positions[0].Closed())
	assert.False(t, positions[0].ClosePrice.Valid)

	assert.True(t, positions[1].Closed())
	assert.Equal(t, "2023-06-30", model.FormatDate(positions[1].CloseDate))
	assert.Equal(t, "95.5", positions[1].ClosePrice.Decimal.String())
}

func TestLoadPositions_MissingFile(t *testing.T) {
	_, err := LoadPositions(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecodePositions_Invalid(t *testing.T) {
	_, err := DecodePositions(strings.NewReader(`[{"id":1,"open_date":"2023-13-01","instrument_id":1,"instrument_currency":"USD"}]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = DecodePositions(strings.NewReader(`{"id":1}`))
	require.Error(t, err)
}
