package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"MVPScreener/internal/notifier"
	"MVPScreener/internal/scheduler"
)

var runOnStart bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the screen on its cron schedule until interrupted",
	RunE:  runStart,
}

func init() {
	startCmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "run the screen immediately")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	sched := scheduler.NewScheduler(ctx, a.runner, a.log)
	if err := sched.Register(a.cfg.Schedule.ScreenCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn, ok := a.sender.(*notifier.TelegramNotifier); ok && a.cfg.Notifier.Telegram.Polling {
		go tn.StartPolling(ctx, sched.HandleCommand, a.log)
		a.log.Info("telegram polling started")
	}

	if runOnStart {
		a.log.Info("run-on-start enabled, executing screen now")
		go sched.RunNow()
	}

	a.log.Infof("mvpscreener is running (store=%s, notifier=%s), press Ctrl+C to stop", a.store.Name(), a.sender.Name())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	a.log.Info("shutdown signal received, stopping")
	cancel()
	return nil
}
