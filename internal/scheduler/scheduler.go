package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"MVPScreener/internal/logger"
	"MVPScreener/internal/notifier"
)

// Scheduler runs the screening on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron   *cron.Cron
	Runner *Runner
	Ctx    context.Context
	log    *logger.Logger
}

func NewScheduler(ctx context.Context, runner *Runner, log *logger.Logger) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Runner: runner,
		Ctx:    ctx,
		log:    log,
	}
}

// Register schedules the screening run on a six-field cron spec.
func (s *Scheduler) Register(screenCron string) error {
	if _, err := s.Cron.AddFunc(screenCron, s.screenTask); err != nil {
		return fmt.Errorf("register screening task: %w", err)
	}
	s.log.WithField("schedule", screenCron).Info("screening task registered")
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow executes the screening task immediately.
func (s *Scheduler) RunNow() {
	s.screenTask()
}

func (s *Scheduler) screenTask() {
	if _, err := s.Runner.Run(s.Ctx); err != nil {
		s.log.WithError(err).Error("screening run failed")
	}
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch fields[0] {
	case "/screen":
		// the run delivers its own report
		if _, err := s.Runner.Run(ctx); err != nil {
			return fmt.Sprintf("Screening failed: %v", err)
		}
		return ""
	case "/last":
		last := s.Runner.LastReport()
		if last == nil {
			return "No screening run yet"
		}
		return notifier.FormatRunSummary(last)
	case "/why":
		if len(fields) < 2 {
			return "Usage: /why SYMBOL"
		}
		return s.explain(fields[1])
	default:
		return helpText
	}
}

func (s *Scheduler) explain(symbol string) string {
	last := s.Runner.LastReport()
	if last == nil {
		return "No screening run yet"
	}
	for _, v := range last.Verdicts {
		if strings.EqualFold(v.Symbol, symbol) {
			return notifier.FormatVerdict(v)
		}
	}
	return fmt.Sprintf("%s was not screened in the last run", symbol)
}

const helpText = "Available commands:\n" +
	"/screen - run the screen now\n" +
	"/last - show the last run\n" +
	"/why SYMBOL - explain a symbol's verdict"
