package strategy

import (
	"math/big"

	"github.com/shopspring/decimal"

	"MVPScreener/internal/model"
)

// Comparisons in one window: each day against the next older day.
const comparisons = model.WindowSize - 1

var (
	// MomentumThreshold is the up-day ratio that must be strictly exceeded.
	MomentumThreshold = 0.8
	// VolumeGrowthThreshold is the minimum volume growth over the window, inclusive.
	VolumeGrowthThreshold = decimal.RequireFromString("0.25")
	// PriceGrowthThreshold is the minimum price growth over the window, inclusive.
	PriceGrowthThreshold = decimal.RequireFromString("0.20")
)

// ratioPrecision is the number of decimal places kept in reported ratios.
const ratioPrecision = 16

// countUpDays counts days whose price is above the immediately older day.
func countUpDays(s *model.SymbolSeries) int {
	up := 0
	for i := 0; i < comparisons; i++ {
		if s.Prices[i].GreaterThan(s.Prices[i+1]) {
			up++
		}
	}
	return up
}

// scoreMomentum reports the up-day ratio and whether it exceeds MomentumThreshold.
func scoreMomentum(s *model.SymbolSeries) (upDays int, ratio float64, pass bool) {
	upDays = countUpDays(s)
	ratio = float64(upDays) / float64(comparisons)
	return upDays, ratio, ratio > MomentumThreshold
}

// growth returns (latest-base)/base rounded for display, and whether the exact
// ratio is at least threshold. base must be non-zero.
func growth(latest, base, threshold decimal.Decimal) (decimal.Decimal, bool) {
	increase := latest.Sub(base)
	exact := new(big.Rat).Quo(increase.Rat(), base.Rat())
	pass := exact.Cmp(threshold.Rat()) >= 0
	return increase.DivRound(base, ratioPrecision), pass
}

// scoreVolumeGrowth compares the newest volume with the window baseline.
func scoreVolumeGrowth(s *model.SymbolSeries) (decimal.Decimal, bool) {
	_, latest := s.Latest()
	_, base := s.Baseline()
	return growth(decimal.NewFromInt(latest), decimal.NewFromInt(base), VolumeGrowthThreshold)
}

// scorePriceGrowth compares the newest price with the window baseline.
func scorePriceGrowth(s *model.SymbolSeries) (decimal.Decimal, bool) {
	latest, _ := s.Latest()
	base, _ := s.Baseline()
	return growth(latest, base, PriceGrowthThreshold)
}
