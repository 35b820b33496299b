package data

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"portfolio-metrics/internal/model"
)

// LoadPositions reads a JSON array of position records and validates each one.
func LoadPositions(path string) ([]model.Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open positions file: %w", err)
	}
	defer f.Close()
	return DecodePositions(f)
}

// DecodePositions parses position records from r.
func DecodePositions(r io.Reader) ([]model.Position, error) {
	var records []model.PositionRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode positions: %w", err)
	}
	return model.NewPositions(records)
}
