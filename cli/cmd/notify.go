package cmd

import (
	"context"
	"time"

	"github.com/pithecene-io/abacus/adapter"
	redisadapter "github.com/pithecene-io/abacus/adapter/redis"
	"github.com/pithecene-io/abacus/adapter/webhook"
	"github.com/pithecene-io/abacus/cli/config"
	"github.com/pithecene-io/abacus/journal"
	"github.com/pithecene-io/abacus/types"
)

// newNotifier builds the configured adapter, or nil when notifications are off.
func newNotifier(cfg config.NotifyConfig) (adapter.Adapter, error) {
	switch cfg.Adapter {
	case adapter.NameRedis:
		return redisadapter.New(redisadapter.Config{
			URL:     cfg.URL,
			Channel: cfg.Channel,
			Timeout: cfg.Timeout.Duration,
			Retries: cfg.Retries,
		})
	case adapter.NameWebhook:
		return webhook.New(webhook.Config{
			URL:     cfg.URL,
			Headers: cfg.Headers,
			Timeout: cfg.Timeout.Duration,
			Retries: cfg.Retries,
		})
	default:
		return nil, adapter.ValidateName(cfg.Adapter)
	}
}

// notify publishes a completed calculation. Failures are logged, not returned.
func (s *session) notify(ctx context.Context, e journal.Entry, entry string) {
	if s.notifier == nil {
		return
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	event := &adapter.CalculationEvent{
		EventType:  adapter.EventCalculationCompleted,
		Version:    types.Version,
		SessionID:  s.sessionID,
		EntryID:    e.ID,
		Expression: e.Expression,
		Result:     e.Result,
		Entry:      entry,
		Timestamp:  ts.UTC().Format(time.RFC3339),
	}

	if err := s.notifier.Publish(ctx, event); err != nil {
		s.logger.Warn("notification failed", map[string]any{
			"adapter": s.cfg.Notify.Adapter,
			"entry":   entry,
			"error":   err.Error(),
		})
		return
	}
	s.logger.Debug("notification published", map[string]any{
		"adapter":  s.cfg.Notify.Adapter,
		"entry_id": e.ID,
	})
}
