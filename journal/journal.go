// Package journal keeps the unbounded log of completed calculations.
//
// Unlike the ten-entry history, the journal keeps every calculation with an
// id and timestamp. Records are written to a Lode dataset with Hive layout
// partitioned by day and the JSONL codec.
package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/justapithecus/lode/lode"
)

// DatasetID is the Lode dataset name.
const DatasetID = "abacus-journal"

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 100

const dayLayout = "2006-01-02"

// Entry is one completed calculation.
type Entry struct {
	ID         string    `json:"id" yaml:"id"`
	Expression string    `json:"expression" yaml:"expression"`
	Result     string    `json:"result" yaml:"result"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// String renders the entry the way the history shows it.
func (e Entry) String() string {
	return e.Expression + " = " + e.Result
}

// ParseEntry splits a history entry "<a> <op> <b> = <result>" into
// expression and result.
func ParseEntry(s string) (Entry, error) {
	i := strings.LastIndex(s, " = ")
	if i <= 0 || i+3 >= len(s) {
		return Entry{}, fmt.Errorf("not a calculation entry: %q", s)
	}
	return Entry{Expression: s[:i], Result: s[i+3:]}, nil
}

// Journal appends and lists calculations.
type Journal struct {
	dataset lode.Dataset
	now     func() time.Time
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// New creates a journal over a custom store factory.
// Use lode.NewMemoryFactory() for testing.
func New(factory lode.StoreFactory, opts ...Option) (*Journal, error) {
	ds, err := lode.NewDataset(
		lode.DatasetID(DatasetID),
		factory,
		lode.WithHiveLayout("day"),
		lode.WithCodec(lode.NewJSONLCodec()),
	)
	if err != nil {
		return nil, fmt.Errorf("create journal dataset: %w", err)
	}
	j := &Journal{dataset: ds, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// NewFS creates a journal stored under root on the local filesystem.
func NewFS(root string, opts ...Option) (*Journal, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("journal requires a root directory")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	return New(lode.NewFSFactory(root), opts...)
}

// Record parses a history entry and appends it.
func (j *Journal) Record(ctx context.Context, historyEntry string) (Entry, error) {
	e, err := ParseEntry(historyEntry)
	if err != nil {
		return Entry{}, err
	}
	return e, j.Append(ctx, &e)
}

// Append writes e, filling in a missing ID and timestamp.
func (j *Journal) Append(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = j.now()
	}
	e.Timestamp = e.Timestamp.UTC()

	record := map[string]any{
		"id":         e.ID,
		"expression": e.Expression,
		"result":     e.Result,
		"timestamp":  e.Timestamp.Format(time.RFC3339Nano),
		"day":        e.Timestamp.Format(dayLayout),
	}
	if _, err := j.dataset.Write(ctx, []any{record}, lode.Metadata{}); err != nil {
		return fmt.Errorf("journal write: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. limit <= 0 selects
// DefaultListLimit.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	snapshots, err := j.dataset.Snapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("journal snapshots: %w", err)
	}

	seen := make(map[string]struct{})
	var entries []Entry
	for _, snap := range snapshots {
		data, err := j.dataset.Read(ctx, snap.ID)
		if err != nil {
			return nil, fmt.Errorf("journal read snapshot %s: %w", snap.ID, err)
		}
		for _, item := range data {
			record, ok := item.(map[string]any)
			if !ok {
				continue
			}
			e, ok := entryFromRecord(record)
			if !ok {
				continue
			}
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
			entries = append(entries, e)
		}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Timestamp.After(entries[b].Timestamp)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func entryFromRecord(record map[string]any) (Entry, bool) {
	id, _ := record["id"].(string)
	expr, _ := record["expression"].(string)
	result, _ := record["result"].(string)
	ts, _ := record["timestamp"].(string)
	if id == "" || expr == "" {
		return Entry{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Entry{}, false
	}
	return Entry{ID: id, Expression: expr, Result: result, Timestamp: t}, true
}
