// Package window groups raw store rows into fixed-length per-symbol series.
package window

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"MVPScreener/internal/model"
)

// ErrMalformedObservation is returned for rows that cannot belong to any series.
var ErrMalformedObservation = errors.New("malformed observation")

// Aggregate builds one SymbolSeries per distinct symbol in obs.
//
// Each symbol's rows are ordered by date descending and the newest
// model.WindowSize are kept; missing older slots stay zero. Rows sharing a
// (symbol, date) pair keep their input order, so ties are whatever order the
// store returned them in. Series are returned sorted by symbol.
func Aggregate(obs []model.Observation) ([]model.SymbolSeries, error) {
	groups := make(map[string][]model.Observation)
	for i, o := range obs {
		if o.Symbol == "" {
			return nil, fmt.Errorf("%w: row %d has no symbol", ErrMalformedObservation, i)
		}
		if o.Volume < 0 {
			return nil, fmt.Errorf("%w: %s on %s has negative volume %d",
				ErrMalformedObservation, o.Symbol, o.Date.Format("2006-01-02"), o.Volume)
		}
		groups[o.Symbol] = append(groups[o.Symbol], o)
	}

	symbols := make([]string, 0, len(groups))
	for sym := range groups {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	series := make([]model.SymbolSeries, 0, len(symbols))
	for _, sym := range symbols {
		s, err := build(sym, Latest(groups[sym], model.WindowSize))
		if err != nil {
			return nil, err
		}
		series = append(series, s)
	}
	return series, nil
}

// Latest returns up to n rows of a single symbol ordered newest first.
// The input slice is not modified.
func Latest(rows []model.Observation, n int) []model.Observation {
	sorted := make([]model.Observation, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// build pads newest-first rows with zero sentinels and validates the result.
func build(symbol string, rows []model.Observation) (model.SymbolSeries, error) {
	prices := make([]decimal.Decimal, model.WindowSize)
	volumes := make([]int64, model.WindowSize)
	for i := range prices {
		prices[i] = decimal.Zero
	}
	for i, o := range rows {
		if i == model.WindowSize {
			break
		}
		prices[i] = o.Price
		volumes[i] = o.Volume
	}
	return model.NewSymbolSeries(symbol, prices, volumes)
}

// Depth returns one past the oldest slot holding a non-zero price or volume.
// For an aggregated series this is the number of trading days with history.
func Depth(s model.SymbolSeries) int {
	for i := model.WindowSize - 1; i >= 0; i-- {
		if !s.Prices[i].IsZero() || s.Volumes[i] != 0 {
			return i + 1
		}
	}
	return 0
}
