package strategy

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"MVPScreener/internal/model"
)

// Evaluate applies the momentum, volume and price rule to one series.
//
// The baseline guards run before any division: a zero oldest volume or price
// fails the symbol, which is also how zero-padded short histories fail.
func Evaluate(s *model.SymbolSeries) model.Verdict {
	v := model.Verdict{
		Symbol:      s.Symbol,
		VolumeRatio: decimal.Zero,
		PriceRatio:  decimal.Zero,
	}

	v.UpDays, v.UpRatio, v.Momentum = scoreMomentum(s)

	basePrice, baseVolume := s.Baseline()
	if baseVolume == 0 {
		v.Reason = model.ReasonZeroBaselineVolume
		return v
	}
	v.VolumeRatio, v.VolumeGrowth = scoreVolumeGrowth(s)

	if basePrice.IsZero() {
		v.Reason = model.ReasonZeroBaselinePrice
		return v
	}
	v.PriceRatio, v.PriceGrowth = scorePriceGrowth(s)

	v.Pass = v.Momentum && v.VolumeGrowth && v.PriceGrowth
	if v.Pass {
		v.Reason = model.ReasonPassed
	} else {
		v.Reason = model.ReasonCriteriaNotMet
	}
	return v
}

// ScreenAll evaluates every series using at most workers goroutines.
// Verdicts are positionally aligned with series.
func ScreenAll(ctx context.Context, series []model.SymbolSeries, workers int) ([]model.Verdict, error) {
	if workers < 1 {
		workers = 1
	}
	verdicts := make([]model.Verdict, len(series))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range series {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			verdicts[i] = Evaluate(&series[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}
