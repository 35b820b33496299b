package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input records.
	ErrValidation = errors.New("validation failed")
	// ErrMissingPriceData marks a (position, instrument) price series that is entirely absent.
	ErrMissingPriceData = errors.New("missing price data")
	// ErrMissingFxPair marks a currency pair with no series at all in the FX table.
	ErrMissingFxPair = errors.New("missing fx pair")
)

// ValidationError reports a field that is missing or out of range.
type ValidationError struct {
	PositionID int
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.PositionID != 0 {
		return fmt.Sprintf("position %d: %s: %s", e.PositionID, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// MissingPriceDataError is returned when the price table has no series for a position's instrument.
// A single missing date inside a present series is not an error.
type MissingPriceDataError struct {
	PositionID   int
	InstrumentID int
	Currency     string
}

func (e *MissingPriceDataError) Error() string {
	return fmt.Sprintf("missing price data for position %d with instrument %d in currency %s",
		e.PositionID, e.InstrumentID, e.Currency)
}

func (e *MissingPriceDataError) Unwrap() error { return ErrMissingPriceData }

// MissingFxPairError is returned when a conversion needs a pair the FX table does not contain.
type MissingFxPairError struct {
	Pair       string
	PositionID int
}

func (e *MissingFxPairError) Error() string {
	return fmt.Sprintf("missing fx rates for pair %s (position %d)", e.Pair, e.PositionID)
}

func (e *MissingFxPairError) Unwrap() error { return ErrMissingFxPair }
