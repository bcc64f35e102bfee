package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"MVPScreener/internal/config"
	"MVPScreener/internal/logger"
	"MVPScreener/internal/notifier"
	"MVPScreener/internal/recorder"
	"MVPScreener/internal/scheduler"
	"MVPScreener/internal/store"
)

// app holds the wired components for one process.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	store    store.Store
	sender   notifier.Sender
	recorder recorder.Recorder
	runner   *scheduler.Runner
}

func loadConfig(dryRun bool) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dryRun {
		cfg.Notifier.Kind = config.NotifierLog
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newApp(ctx context.Context, dryRun bool) (*app, error) {
	cfg, err := loadConfig(dryRun)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.WithField("store", st.Name()).Info("store ready")

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Recorder.SQLitePath != "" {
		if err := ensureDir(cfg.Recorder.SQLitePath); err != nil {
			st.Close()
			return nil, err
		}
		sr, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath, log)
		if err != nil {
			log.WithError(err).Warn("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}

	sender := newSender(cfg, log)
	runner := scheduler.NewRunner(st, sender, rec, cfg.Screen.Workers, cfg.Notifier.MaxRetries, log)

	return &app{cfg: cfg, log: log, store: st, sender: sender, recorder: rec, runner: runner}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return store.NewPostgresStore(ctx, cfg.Database.URL, cfg.Database.Table, cfg.Database.MaxConns, cfg.Database.MinConns)
	case config.DriverSQLite:
		if err := ensureDir(cfg.Database.URL); err != nil {
			return nil, err
		}
		return store.NewSQLiteStore(cfg.Database.URL, cfg.Database.Table)
	case config.DriverYahoo:
		return store.NewYahooStore(cfg.Symbols, cfg.Proxy), nil
	case config.DriverStatic:
		return store.NewStaticStore(nil), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Database.Driver)
	}
}

// ensureDir creates the parent directory of a SQLite file path.
func ensureDir(dbPath string) error {
	if dbPath == ":memory:" || strings.HasPrefix(dbPath, "file:") {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

func newSender(cfg *config.Config, log *logger.Logger) notifier.Sender {
	switch cfg.Notifier.Kind {
	case config.NotifierTelegram:
		return notifier.NewTelegramNotifier(cfg.Notifier.Telegram.BotToken, cfg.Notifier.Telegram.ChatID, cfg.Proxy)
	case config.NotifierSlack:
		return notifier.NewSlackNotifier(cfg.Notifier.Slack.WebhookURL, cfg.Proxy)
	default:
		return notifier.NewLogNotifier(log)
	}
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		a.log.WithError(err).Warn("close recorder")
	}
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("close store")
	}
}
