package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"MVPScreener/internal/logger"
	"MVPScreener/internal/model"
	"MVPScreener/internal/notifier"
	"MVPScreener/internal/recorder"
	"MVPScreener/internal/store"
	"MVPScreener/internal/strategy"
	"MVPScreener/internal/window"
)

// Runner performs screening runs. Concurrent calls to Run are serialized.
type Runner struct {
	Store      store.Store
	Sender     notifier.Sender
	Recorder   recorder.Recorder
	Workers    int
	MaxRetries int
	RetryBase  time.Duration

	log   *logger.Logger
	runMu sync.Mutex
	mu    sync.RWMutex
	last  *model.RunReport
}

// NewRunner creates a Runner. A nil recorder records nothing.
func NewRunner(st store.Store, sender notifier.Sender, rec recorder.Recorder, workers, maxRetries int, log *logger.Logger) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{
		Store:      st,
		Sender:     sender,
		Recorder:   rec,
		Workers:    workers,
		MaxRetries: maxRetries,
		RetryBase:  time.Second,
		log:        log,
	}
}

// Run screens every symbol in the store and sends the report.
// The report is returned even when delivery fails.
func (r *Runner) Run(ctx context.Context) (*model.RunReport, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	report := &model.RunReport{RunID: uuid.NewString(), StartedAt: time.Now()}
	log := r.log.WithField("run_id", report.RunID)
	log.WithField("store", r.Store.Name()).Info("screening run started")

	obs, err := r.Store.FetchObservations(ctx, model.WindowSize)
	if err != nil {
		return nil, fmt.Errorf("fetch observations: %w", err)
	}
	series, err := window.Aggregate(obs)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	verdicts, err := strategy.ScreenAll(ctx, series, r.Workers)
	if err != nil {
		return nil, fmt.Errorf("screen: %w", err)
	}

	for i, v := range verdicts {
		log.WithFields(map[string]interface{}{
			"symbol":        v.Symbol,
			"depth":         window.Depth(series[i]),
			"momentum":      v.Momentum,
			"volume_growth": v.VolumeGrowth,
			"price_growth":  v.PriceGrowth,
			"reason":        string(v.Reason),
		}).Debug("symbol evaluated")
	}

	report.Verdicts = verdicts
	report.Passing = notifier.PassingSymbols(verdicts)
	report.Message = notifier.FormatReport(verdicts)

	sendErr := notifier.SendWithRetry(ctx, r.Sender, report.Message, r.MaxRetries, r.RetryBase, log)
	report.Delivered = sendErr == nil
	report.FinishedAt = time.Now()

	if err := r.Recorder.RecordRun(report); err != nil {
		log.WithError(err).Error("record run")
	}

	r.mu.Lock()
	r.last = report
	r.mu.Unlock()

	log.WithFields(map[string]interface{}{
		"screened":  len(verdicts),
		"matched":   report.Matched(),
		"delivered": report.Delivered,
		"elapsed":   report.FinishedAt.Sub(report.StartedAt).String(),
	}).Info("screening run finished")

	if sendErr != nil {
		return report, fmt.Errorf("send report via %s: %w", r.Sender.Name(), sendErr)
	}
	return report, nil
}

// LastReport returns the most recent completed run, or nil.
func (r *Runner) LastReport() *model.RunReport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}
