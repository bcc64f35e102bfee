package strategy

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MVPScreener/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func series(t *testing.T, symbol string, prices []string, volumes []int64) model.SymbolSeries {
	t.Helper()
	ps := make([]decimal.Decimal, len(prices))
	for i, p := range prices {
		ps[i] = dec(p)
	}
	s, err := model.NewSymbolSeries(symbol, ps, volumes)
	require.NoError(t, err)
	return s
}

func repeat(v int64) []int64 {
	out := make([]int64, model.WindowSize)
	for i := range out {
		out[i] = v
	}
	return out
}

func repeatPrice(p string) []string {
	out := make([]string, model.WindowSize)
	for i := range out {
		out[i] = p
	}
	return out
}

// ladder builds a series with exactly ups up-days: the oldest comparisons are
// down days (-1) and the newest are up days (+10), starting from 100.
func ladder(t *testing.T, ups int) model.SymbolSeries {
	t.Helper()
	s := model.SymbolSeries{Symbol: "LADDER"}
	s.Prices[model.WindowSize-1] = decimal.NewFromInt(100)
	for i := model.WindowSize - 2; i >= 0; i-- {
		step := decimal.NewFromInt(10)
		if (model.WindowSize-2)-i < comparisons-ups {
			step = decimal.NewFromInt(-1)
		}
		s.Prices[i] = s.Prices[i+1].Add(step)
	}
	for i := range s.Volumes {
		s.Volumes[i] = 1000
	}
	s.Volumes[0] = 2000
	return s
}

func TestEvaluate_StrictUptrendPasses(t *testing.T) {
	s := series(t, "TEST",
		[]string{"134.0", "132.0", "131.0", "129.0", "128.0", "127.0", "126.0", "124.0",
			"123.0", "122.0", "121.0", "119.0", "117.0", "115.0", "110.0"},
		[]int64{2900, 2800, 2700, 2600, 2500, 2400, 2300, 2200, 2100, 2000, 1900, 1800, 1700, 1600, 1500},
	)

	v := Evaluate(&s)
	assert.True(t, v.Pass)
	assert.Equal(t, model.ReasonPassed, v.Reason)
	assert.Equal(t, 14, v.UpDays)
	assert.True(t, v.Momentum)
	assert.True(t, v.VolumeGrowth)
	assert.True(t, v.PriceGrowth)
	assert.Equal(t, "0.9333333333333333", v.VolumeRatio.String())
	assert.True(t, v.PriceRatio.GreaterThanOrEqual(PriceGrowthThreshold))
}

func TestEvaluate_FlatSeriesFails(t *testing.T) {
	s := series(t, "FAIL", repeatPrice("100.0"), repeat(1000))

	v := Evaluate(&s)
	assert.False(t, v.Pass)
	assert.Equal(t, model.ReasonCriteriaNotMet, v.Reason)
	assert.Zero(t, v.UpDays)
	assert.False(t, v.Momentum)
	assert.False(t, v.VolumeGrowth)
	assert.False(t, v.PriceGrowth)
	assert.True(t, v.VolumeRatio.IsZero())
	assert.True(t, v.PriceRatio.IsZero())
}

func TestEvaluate_ZeroBaselineVolume(t *testing.T) {
	s := series(t, "ZEROVOL", repeatPrice("100.0"), repeat(0))

	v := Evaluate(&s)
	assert.False(t, v.Pass)
	assert.Equal(t, model.ReasonZeroBaselineVolume, v.Reason)
	assert.False(t, v.VolumeGrowth)
	assert.False(t, v.PriceGrowth)
}

func TestEvaluate_ZeroBaselinePrice(t *testing.T) {
	s := series(t, "ZEROPRICE", repeatPrice("0.0"), repeat(1000))

	v := Evaluate(&s)
	assert.False(t, v.Pass)
	assert.Equal(t, model.ReasonZeroBaselinePrice, v.Reason)
	assert.False(t, v.PriceGrowth)
}

func TestEvaluate_ZeroVolumeGuardRunsFirst(t *testing.T) {
	s := series(t, "BOTH", repeatPrice("0"), repeat(0))

	v := Evaluate(&s)
	assert.Equal(t, model.ReasonZeroBaselineVolume, v.Reason)
}

func boundaryPrices(latest string) []string {
	return []string{latest, "118", "116", "114", "112", "110", "108", "107",
		"106", "105", "104", "103", "102", "101", "100"}
}

func boundaryVolumes(latest int64) []int64 {
	v := repeat(1000)
	v[0] = latest
	return v
}

func TestEvaluate_InclusiveThresholds(t *testing.T) {
	s := series(t, "BORDERLINE_TRUE", boundaryPrices("120.0"), boundaryVolumes(1250))

	v := Evaluate(&s)
	assert.True(t, v.Pass)
	assert.True(t, v.VolumeRatio.Equal(dec("0.25")))
	assert.True(t, v.PriceRatio.Equal(dec("0.2")))
}

func TestEvaluate_JustBelowThresholds(t *testing.T) {
	tests := []struct {
		name       string
		price      string
		volume     int64
		wantVolume bool
		wantPrice  bool
	}{
		{"price under 20%", "119.9", 1250, true, false},
		{"volume under 25%", "120.0", 1249, false, true},
		{"both under", "119.9", 1249, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := series(t, "BORDERLINE_FALSE", boundaryPrices(tt.price), boundaryVolumes(tt.volume))

			v := Evaluate(&s)
			assert.False(t, v.Pass)
			assert.True(t, v.Momentum)
			assert.Equal(t, tt.wantVolume, v.VolumeGrowth)
			assert.Equal(t, tt.wantPrice, v.PriceGrowth)
			assert.Equal(t, model.ReasonCriteriaNotMet, v.Reason)
		})
	}
}

func TestEvaluate_WideBaselineGap(t *testing.T) {
	s := series(t, "GAP",
		[]string{"120.0", "110.0", "109.0", "108.0", "107.0", "106.0", "105.0", "104.0",
			"103.0", "102.0", "101.0", "100.0", "99.0", "98.0", "90.0"},
		boundaryVolumes(1250),
	)
	assert.True(t, Evaluate(&s).Pass)

	s.Prices[0] = dec("119.9")
	s.Volumes[0] = 1249
	assert.False(t, Evaluate(&s).Pass)
}

func TestEvaluate_MomentumBoundary(t *testing.T) {
	tests := []struct {
		ups  int
		pass bool
	}{
		{14, true},
		{12, true},
		{11, false},
		{0, false},
	}
	for _, tt := range tests {
		s := ladder(t, tt.ups)
		v := Evaluate(&s)
		assert.Equal(t, tt.ups, v.UpDays)
		assert.Equal(t, tt.pass, v.Momentum, "ups=%d", tt.ups)
		assert.Equal(t, tt.pass, v.Pass, "ups=%d", tt.ups)
		assert.True(t, v.VolumeGrowth)
	}
}

func TestEvaluate_ExactDecimalRatios(t *testing.T) {
	// (0.36-0.3)/0.3 is exactly 0.2 but 0.19999999999999998 in float64.
	s := ladder(t, 14)
	s.Prices[0] = dec("0.36")
	s.Prices[1] = dec("0.35")
	for i := 2; i < model.WindowSize; i++ {
		s.Prices[i] = dec("0.34").Sub(decimal.New(int64(i), -3))
	}
	s.Prices[model.WindowSize-1] = dec("0.3")

	v := Evaluate(&s)
	assert.True(t, v.PriceGrowth)
	assert.True(t, v.Pass)

	// A ratio a hair under 0.2 must fail even when the displayed ratio rounds to 0.2.
	s.Prices[model.WindowSize-1] = dec("100000000000000000000")
	s.Prices[0] = dec("119999999999999999999")
	for i := 1; i < model.WindowSize-1; i++ {
		s.Prices[i] = s.Prices[model.WindowSize-1].Add(decimal.NewFromInt(int64(model.WindowSize - 1 - i)))
	}
	v = Evaluate(&s)
	assert.True(t, v.PriceRatio.Equal(dec("0.2")))
	assert.False(t, v.PriceGrowth)
}

func TestEvaluate_PaddedSeriesNeverPasses(t *testing.T) {
	for depth := 0; depth < model.WindowSize; depth++ {
		s := ladder(t, 14)
		for i := depth; i < model.WindowSize; i++ {
			s.Prices[i] = decimal.Zero
			s.Volumes[i] = 0
		}
		v := Evaluate(&s)
		assert.False(t, v.Pass, "depth=%d", depth)
		assert.Equal(t, model.ReasonZeroBaselineVolume, v.Reason, "depth=%d", depth)
	}
}

func randomSeries(r *rand.Rand, symbol string) model.SymbolSeries {
	s := model.SymbolSeries{Symbol: symbol}
	for i := range s.Prices {
		s.Prices[i] = decimal.New(r.Int63n(100000), -2)
		s.Volumes[i] = r.Int63n(5000)
	}
	return s
}

func TestEvaluate_ZeroGuardPrecedence(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for n := 0; n < 200; n++ {
		s := randomSeries(r, "RND")
		if n%2 == 0 {
			s.Volumes[model.WindowSize-1] = 0
		} else {
			s.Prices[model.WindowSize-1] = decimal.Zero
			if s.Volumes[model.WindowSize-1] == 0 {
				s.Volumes[model.WindowSize-1] = 1
			}
		}
		assert.False(t, Evaluate(&s).Pass)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for n := 0; n < 50; n++ {
		s := randomSeries(r, "DET")
		first := Evaluate(&s)
		second := Evaluate(&s)
		assert.Equal(t, first.Pass, second.Pass)
		assert.Equal(t, first.Reason, second.Reason)
		assert.Equal(t, first.UpDays, second.UpDays)
		assert.True(t, first.VolumeRatio.Equal(second.VolumeRatio))
		assert.True(t, first.PriceRatio.Equal(second.PriceRatio))
	}
}

func TestScreenAll_MatchesSequential(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	in := make([]model.SymbolSeries, 64)
	for i := range in {
		in[i] = randomSeries(r, string(rune('A'+i%26))+string(rune('a'+i/26)))
	}
	in[10] = ladder(t, 14)

	got, err := ScreenAll(context.Background(), in, 8)
	require.NoError(t, err)
	require.Len(t, got, len(in))
	for i := range in {
		want := Evaluate(&in[i])
		assert.Equal(t, want.Symbol, got[i].Symbol)
		assert.Equal(t, want.Pass, got[i].Pass)
		assert.Equal(t, want.Reason, got[i].Reason)
	}
	assert.True(t, got[10].Pass)
}

func TestScreenAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScreenAll(ctx, []model.SymbolSeries{ladder(t, 14)}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
