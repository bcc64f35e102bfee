package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// WindowSize is the number of trading days in a screening window.
const WindowSize = 15

// ErrMalformedSeries is returned when price and volume history cannot form a window.
var ErrMalformedSeries = errors.New("malformed series")

// Observation is a single daily price/volume row read from the store.
type Observation struct {
	Symbol string
	Date   time.Time
	Price  decimal.Decimal
	Volume int64
}

// SymbolSeries holds the WindowSize most recent observations of one symbol.
// Index 0 is the most recent trading day, index WindowSize-1 the oldest.
// Slots without history hold zero price and zero volume.
type SymbolSeries struct {
	Symbol  string
	Prices  [WindowSize]decimal.Decimal
	Volumes [WindowSize]int64
}

// NewSymbolSeries builds a series from newest-first slices of exactly WindowSize values.
func NewSymbolSeries(symbol string, prices []decimal.Decimal, volumes []int64) (SymbolSeries, error) {
	if len(prices) != len(volumes) {
		return SymbolSeries{}, fmt.Errorf("%w: %s has %d prices and %d volumes", ErrMalformedSeries, symbol, len(prices), len(volumes))
	}
	if len(prices) != WindowSize {
		return SymbolSeries{}, fmt.Errorf("%w: %s has %d slots, want %d", ErrMalformedSeries, symbol, len(prices), WindowSize)
	}
	s := SymbolSeries{Symbol: symbol}
	copy(s.Prices[:], prices)
	copy(s.Volumes[:], volumes)
	return s, nil
}

// Latest returns the most recent price and volume.
func (s *SymbolSeries) Latest() (decimal.Decimal, int64) {
	return s.Prices[0], s.Volumes[0]
}

// Baseline returns the oldest price and volume in the window.
func (s *SymbolSeries) Baseline() (decimal.Decimal, int64) {
	return s.Prices[WindowSize-1], s.Volumes[WindowSize-1]
}
