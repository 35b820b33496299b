package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// PositionRecord is the wire shape of a position as it arrives in request payloads
// and positions files.
type PositionRecord struct {
	ID                   int                 `json:"id"`
	OpenDate             string              `json:"open_date"`
	CloseDate            string              `json:"close_date,omitempty"`
	OpenPrice            decimal.Decimal     `json:"open_price"`
	ClosePrice           decimal.NullDecimal `json:"close_price"`
	Quantity             decimal.Decimal     `json:"quantity"`
	TransactionCosts     decimal.Decimal     `json:"transaction_costs"`
	InstrumentID         int                 `json:"instrument_id"`
	InstrumentCurrency   string              `json:"instrument_currency"`
	OpenTransactionType  string              `json:"open_transaction_type"`
	CloseTransactionType string              `json:"close_transaction_type,omitempty"`
}

// Position is a validated holding with an open event and an optional close event.
// Dates are UTC midnights. A zero CloseDate means the position is still open.
type Position struct {
	ID                   int
	OpenDate             time.Time
	CloseDate            time.Time
	OpenPrice            decimal.Decimal
	ClosePrice           decimal.NullDecimal
	Quantity             decimal.Decimal
	TransactionCosts     decimal.Decimal
	InstrumentID         int
	InstrumentCurrency   string
	OpenTransactionType  string
	CloseTransactionType string
}

// NewPosition validates a record and converts it into a Position.
func NewPosition(r PositionRecord) (Position, error) {
	invalid := func(field, reason string) (Position, error) {
		return Position{}, &ValidationError{PositionID: r.ID, Field: field, Reason: reason}
	}

	if r.ID == 0 {
		return invalid("id", "is required")
	}
	if r.InstrumentID <= 0 {
		return invalid("instrument_id", "must be > 0")
	}
	currency := strings.ToUpper(strings.TrimSpace(r.InstrumentCurrency))
	if currency == "" {
		return invalid("instrument_currency", "is required")
	}
	if !ValidCurrency(currency) {
		return invalid("instrument_currency", fmt.Sprintf("unknown currency code %q", r.InstrumentCurrency))
	}
	if r.OpenDate == "" {
		return invalid("open_date", "is required")
	}
	openDate, err := ParseDate(r.OpenDate)
	if err != nil {
		return invalid("open_date", err.Error())
	}
	var closeDate time.Time
	if r.CloseDate != "" {
		closeDate, err = ParseDate(r.CloseDate)
		if err != nil {
			return invalid("close_date", err.Error())
		}
		if closeDate.Before(openDate) {
			return invalid("close_date", fmt.Sprintf("%s is before open_date %s", r.CloseDate, r.OpenDate))
		}
	}
	if r.OpenPrice.IsNegative() {
		return invalid("open_price", "must be >= 0")
	}
	if r.ClosePrice.Valid && r.ClosePrice.Decimal.IsNegative() {
		return invalid("close_price", "must be >= 0")
	}

	return Position{
		ID:                   r.ID,
		OpenDate:             openDate,
		CloseDate:            closeDate,
		OpenPrice:            r.OpenPrice,
		ClosePrice:           r.ClosePrice,
		Quantity:             r.Quantity,
		TransactionCosts:     r.TransactionCosts,
		InstrumentID:         r.InstrumentID,
		InstrumentCurrency:   currency,
		OpenTransactionType:  r.OpenTransactionType,
		CloseTransactionType: r.CloseTransactionType,
	}, nil
}

// NewPositions validates every record and rejects duplicate ids.
func NewPositions(records []PositionRecord) ([]Position, error) {
	out := make([]Position, 0, len(records))
	seen := make(map[int]bool, len(records))
	for _, r := range records {
		p, err := NewPosition(r)
		if err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, &ValidationError{PositionID: p.ID, Field: "id", Reason: "duplicate position id"}
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out, nil
}

// Record converts the position back into its wire shape.
func (p Position) Record() PositionRecord {
	r := PositionRecord{
		ID:                   p.ID,
		OpenDate:             FormatDate(p.OpenDate),
		OpenPrice:            p.OpenPrice,
		ClosePrice:           p.ClosePrice,
		Quantity:             p.Quantity,
		TransactionCosts:     p.TransactionCosts,
		InstrumentID:         p.InstrumentID,
		InstrumentCurrency:   p.InstrumentCurrency,
		OpenTransactionType:  p.OpenTransactionType,
		CloseTransactionType: p.CloseTransactionType,
	}
	if p.Closed() {
		r.CloseDate = FormatDate(p.CloseDate)
	}
	return r
}

// Closed reports whether the position has a close date.
func (p Position) Closed() bool {
	return !p.CloseDate.IsZero()
}

// OpenOn reports whether the position is held on d: open_date <= d < close_date.
func (p Position) OpenOn(d time.Time) bool {
	if d.Before(p.OpenDate) {
		return false
	}
	return !p.Closed() || d.Before(p.CloseDate)
}

// ActiveOn reports whether d falls inside [open_date, close_date], the window in which
// the position contributes returns. The close day itself is active but not open.
func (p Position) ActiveOn(d time.Time) bool {
	if d.Before(p.OpenDate) {
		return false
	}
	return !p.Closed() || !d.After(p.CloseDate)
}

// InstrumentKey is the instrument id as used for keys in the price table.
func (p Position) InstrumentKey() string {
	return strconv.Itoa(p.InstrumentID)
}

// ValidCurrency reports whether code is a known ISO 4217 currency code.
func ValidCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}
