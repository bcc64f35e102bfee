package recorder

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MVPScreener/internal/logger"
	"MVPScreener/internal/model"
)

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	r, err := NewSQLiteRecorder(":memory:", logger.Nop())
	require.NoError(t, err)
	defer r.Close()

	now := time.Now()
	report := &model.RunReport{
		RunID:      "run-1",
		StartedAt:  now.Add(-time.Second),
		FinishedAt: now,
		Verdicts: []model.Verdict{
			{Symbol: "AAA", Pass: true, Momentum: true, VolumeGrowth: true, PriceGrowth: true, UpDays: 14,
				VolumeRatio: decimal.RequireFromString("0.25"), PriceRatio: decimal.RequireFromString("0.2"),
				Reason: model.ReasonPassed},
			{Symbol: "BBB", UpDays: 3, VolumeRatio: decimal.Zero, PriceRatio: decimal.Zero,
				Reason: model.ReasonZeroBaselineVolume},
		},
		Passing:   []string{"AAA"},
		Message:   "Symbols satisfying the MVP criteria: AAA",
		Delivered: true,
	}
	require.NoError(t, r.RecordRun(report))

	var screened, matched int
	var delivered bool
	require.NoError(t, r.db.QueryRow(
		`SELECT screened, matched, delivered FROM screening_runs WHERE run_id = ?`, "run-1",
	).Scan(&screened, &matched, &delivered))
	assert.Equal(t, 2, screened)
	assert.Equal(t, 1, matched)
	assert.True(t, delivered)

	var reason, ratio string
	require.NoError(t, r.db.QueryRow(
		`SELECT reason, volume_ratio FROM verdicts WHERE run_id = ? AND symbol = ?`, "run-1", "AAA",
	).Scan(&reason, &ratio))
	assert.Equal(t, "passed", reason)
	assert.Equal(t, "0.25", ratio)

	// duplicate run ids are rejected and leave no partial verdict rows
	assert.Error(t, r.RecordRun(report))
	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM verdicts`).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(&model.RunReport{}))
	assert.NoError(t, r.Close())
}
