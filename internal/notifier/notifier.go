package notifier

import (
	"context"
	"fmt"
	"time"

	"MVPScreener/internal/logger"
)

// Sender delivers a single text message.
type Sender interface {
	Send(ctx context.Context, text string) error
	Name() string
}

// SendWithRetry sends text with exponential backoff, starting at base.
func SendWithRetry(ctx context.Context, s Sender, text string, maxRetries int, base time.Duration, log *logger.Logger) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := s.Send(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := base * time.Duration(1<<uint(i))
		log.WithError(err).Warnf("%s send failed (attempt %d/%d), retrying in %v", s.Name(), i+1, maxRetries+1, backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d attempts exhausted: %w", maxRetries+1, lastErr)
}

// LogNotifier writes messages to the logger instead of delivering them.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier { return &LogNotifier{log: log} }

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Send(_ context.Context, text string) error {
	n.log.WithField("message", text).Info("notification (dry run)")
	return nil
}
