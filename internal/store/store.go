// Package store reads daily price/volume rows for screening.
package store

import (
	"context"

	"MVPScreener/internal/model"
	"MVPScreener/internal/window"
)

// Store supplies observations for screening.
type Store interface {
	// FetchObservations returns, per symbol, at most depth of the most recent
	// rows. Row order is not guaranteed.
	FetchObservations(ctx context.Context, depth int) ([]model.Observation, error)
	Name() string
	Close() error
}

// StaticStore serves a fixed set of observations.
type StaticStore struct {
	Observations []model.Observation
}

func NewStaticStore(obs []model.Observation) *StaticStore {
	return &StaticStore{Observations: obs}
}

func (s *StaticStore) Name() string { return "static" }

func (s *StaticStore) Close() error { return nil }

// FetchObservations limits client-side to depth rows per symbol.
func (s *StaticStore) FetchObservations(ctx context.Context, depth int) ([]model.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bySymbol := make(map[string][]model.Observation)
	var order []string
	for _, o := range s.Observations {
		if _, ok := bySymbol[o.Symbol]; !ok {
			order = append(order, o.Symbol)
		}
		bySymbol[o.Symbol] = append(bySymbol[o.Symbol], o)
	}
	var out []model.Observation
	for _, sym := range order {
		out = append(out, window.Latest(bySymbol[sym], depth)...)
	}
	return out, nil
}
