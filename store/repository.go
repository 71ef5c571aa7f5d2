package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/pithecene-io/abacus/calc"
	"github.com/pithecene-io/abacus/log"
	"github.com/pithecene-io/abacus/metrics"
	"github.com/pithecene-io/abacus/prefs"
)

// Fixed storage keys shared with the browser calculator.
const (
	KeyHistory     = "calculator_history"
	KeyPreferences = "calculator_preferences"
)

// Repository persists calculator history and preferences in a Store.
//
// Absent keys load as defaults. Payloads that fail to decode are logged at
// warn level and replaced by defaults; only backend failures are returned.
type Repository struct {
	store   Store
	codec   Codec
	logger  *log.Logger
	metrics *metrics.Collector
}

// NewRepository creates a repository. A nil codec selects JSON and a nil
// logger discards warnings. collector may be nil.
func NewRepository(s Store, codec Codec, logger *log.Logger, collector *metrics.Collector) *Repository {
	if codec == nil {
		codec = JSONCodec{}
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Repository{store: s, codec: codec, logger: logger, metrics: collector}
}

// Store returns the underlying store.
func (r *Repository) Store() Store {
	return r.store
}

// LoadHistory returns the stored history entries, oldest first.
func (r *Repository) LoadHistory(ctx context.Context) ([]string, error) {
	data, err := r.store.Get(ctx, KeyHistory)
	if IsNotFound(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	entries, err := r.decodeHistory(data)
	if err != nil {
		r.malformed(KeyHistory, err)
		return []string{}, nil
	}
	return entries, nil
}

// decodeHistory accepts a list of entry strings, or the legacy list of
// {expression, result} objects stored newest first.
func (r *Repository) decodeHistory(data []byte) ([]string, error) {
	var items []any
	if err := r.codec.Unmarshal(data, &items); err != nil {
		return nil, err
	}

	entries := make([]string, 0, len(items))
	legacy := false
	for i, item := range items {
		switch v := item.(type) {
		case string:
			entries = append(entries, v)
		case map[string]any:
			entry, ok := legacyEntry(v)
			if !ok {
				return nil, fmt.Errorf("history item %d: missing expression", i)
			}
			entries = append(entries, entry)
			legacy = true
		default:
			return nil, fmt.Errorf("history item %d: unexpected %T", i, item)
		}
	}
	if legacy {
		slices.Reverse(entries)
	}
	return entries, nil
}

func legacyEntry(m map[string]any) (string, bool) {
	expr, ok := m["expression"].(string)
	if !ok || expr == "" {
		return "", false
	}
	switch res := m["result"].(type) {
	case nil:
		return expr, true
	case string:
		return expr + " = " + res, true
	case float64:
		return expr + " = " + calc.Format(res), true
	default:
		return fmt.Sprintf("%s = %v", expr, res), true
	}
}

// SaveHistory replaces the stored history.
func (r *Repository) SaveHistory(ctx context.Context, entries []string) error {
	if entries == nil {
		entries = []string{}
	}
	return r.set(ctx, KeyHistory, entries)
}

// ClearHistory removes the stored history.
func (r *Repository) ClearHistory(ctx context.Context) error {
	return r.delete(ctx, KeyHistory)
}

// LoadPreferences returns the stored preferences merged over the defaults.
// Out-of-range stored values are repaired to their defaults.
func (r *Repository) LoadPreferences(ctx context.Context) (prefs.Preferences, error) {
	data, err := r.store.Get(ctx, KeyPreferences)
	if IsNotFound(err) {
		return prefs.Defaults(), nil
	}
	if err != nil {
		return prefs.Defaults(), err
	}

	p := prefs.Defaults()
	if err := r.codec.Unmarshal(data, &p); err != nil {
		r.malformed(KeyPreferences, err)
		return prefs.Defaults(), nil
	}

	p, repaired := prefs.Normalize(p)
	if repaired {
		r.logger.Warn("repaired stored preferences", map[string]any{
			"key": KeyPreferences,
		})
	}
	return p, nil
}

// SavePreferences replaces the stored preferences.
func (r *Repository) SavePreferences(ctx context.Context, p prefs.Preferences) error {
	return r.set(ctx, KeyPreferences, p)
}

// ResetPreferences removes the stored preferences and returns the defaults.
func (r *Repository) ResetPreferences(ctx context.Context) (prefs.Preferences, error) {
	return prefs.Defaults(), r.delete(ctx, KeyPreferences)
}

func (r *Repository) set(ctx context.Context, key string, v any) error {
	data, err := r.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		r.metrics.IncStoreWriteFailure()
		return err
	}
	r.metrics.IncStoreWriteSuccess()
	return nil
}

func (r *Repository) delete(ctx context.Context, key string) error {
	if err := r.store.Delete(ctx, key); err != nil {
		r.metrics.IncStoreWriteFailure()
		return err
	}
	r.metrics.IncStoreWriteSuccess()
	return nil
}

func (r *Repository) malformed(key string, err error) {
	r.logger.Warn("malformed stored data, using defaults", map[string]any{
		"key":   key,
		"codec": r.codec.Name(),
		"error": NewStorageError(ErrMalformed, "decode", key, err).Error(),
	})
}

// Close closes the underlying store.
func (r *Repository) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}
