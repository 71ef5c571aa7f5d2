// Package adapter defines the notification boundary for completed
// calculations.
//
// Adapters publish one event per completed calculation to a downstream
// system. Publishing is best-effort: the caller logs failures and carries on.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// EventCalculationCompleted is the only event type.
const EventCalculationCompleted = "calculation_completed"

// Adapter names.
const (
	NameRedis   = "redis"
	NameWebhook = "webhook"
)

// DefaultRetries is the default number of retry attempts.
const DefaultRetries = 3

// DefaultBackoff is the delay before the first retry. It doubles per retry.
const DefaultBackoff = 500 * time.Millisecond

// CalculationEvent is the payload published when a calculation completes.
type CalculationEvent struct {
	EventType  string `json:"event_type"` // always "calculation_completed"
	Version    string `json:"version"`
	SessionID  string `json:"session_id"`
	EntryID    string `json:"entry_id,omitempty"`
	Expression string `json:"expression"`
	Result     string `json:"result"`
	Entry      string `json:"entry"`
	Timestamp  string `json:"timestamp"` // RFC 3339
}

// Adapter publishes calculation events to a downstream system.
type Adapter interface {
	// Publish sends one event. Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *CalculationEvent) error

	// Close releases adapter resources.
	Close() error
}

// ValidateName reports whether name is a supported adapter. Empty means
// notifications are off.
func ValidateName(name string) error {
	switch name {
	case "", NameRedis, NameWebhook:
		return nil
	default:
		return fmt.Errorf("unknown notify adapter %q (want %s or %s)", name, NameRedis, NameWebhook)
	}
}

// permanentError stops Retry immediately.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as non-retriable.
func Permanent(err error) error {
	return &permanentError{err: err}
}

// Retry calls fn up to 1+retries times with exponential backoff between
// attempts. It stops early on success, on a Permanent error, or when ctx is
// done. The returned error wraps the last failure.
func Retry(ctx context.Context, retries int, backoff time.Duration, fn func(context.Context) error) error {
	var lastErr error
	// attempts = 1 initial + retries
	attempts := 1 + retries

	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context canceled: %w", err)
		}

		// Exponential backoff before retries (not before first attempt)
		if i > 0 && backoff > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("context canceled during backoff: %w", ctx.Err())
			case <-time.After(time.Duration(1<<uint(i-1)) * backoff):
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(lastErr, &perm) {
			return fmt.Errorf("non-retriable error: %w", perm.err)
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
