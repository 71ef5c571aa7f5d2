// Package metrics provides per-session calculator counters.
//
// The Collector accumulates counters while a calculator session runs. It is
// a leaf package with no internal dependencies; event kinds are recorded by
// name so the calc package can feed it without an import cycle.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of the session counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Input
	EventsApplied int64            `json:"events_applied" yaml:"events_applied"`
	EventsIgnored int64            `json:"events_ignored" yaml:"events_ignored"`
	EventsByKind  map[string]int64 `json:"events_by_kind" yaml:"events_by_kind"`

	// Arithmetic
	Calculations   int64 `json:"calculations" yaml:"calculations"`
	DivisionByZero int64 `json:"division_by_zero" yaml:"division_by_zero"`
	InvalidResult  int64 `json:"invalid_result" yaml:"invalid_result"`

	// Resets
	Clears        int64 `json:"clears" yaml:"clears"`
	HistoryClears int64 `json:"history_clears" yaml:"history_clears"`

	// Storage
	StoreWriteSuccess int64 `json:"store_write_success" yaml:"store_write_success"`
	StoreWriteFailure int64 `json:"store_write_failure" yaml:"store_write_failure"`

	// Dimensions (informational, set at construction)
	SessionID      string `json:"session_id" yaml:"session_id"`
	StorageBackend string `json:"storage_backend" yaml:"storage_backend"`
}

// Collector accumulates metrics during a single session.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	eventsApplied int64
	eventsIgnored int64
	eventsByKind  map[string]int64

	calculations   int64
	divisionByZero int64
	invalidResult  int64

	clears        int64
	historyClears int64

	storeWriteSuccess int64
	storeWriteFailure int64

	sessionID      string
	storageBackend string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(sessionID, storageBackend string) *Collector {
	return &Collector{
		eventsByKind:   make(map[string]int64),
		sessionID:      sessionID,
		storageBackend: storageBackend,
	}
}

// --- Input ---

// IncEvent records one input event of the given kind.
// Ignored events count toward EventsIgnored instead of EventsApplied.
func (c *Collector) IncEvent(kind string, ignored bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if ignored {
		c.eventsIgnored++
	} else {
		c.eventsApplied++
	}
	c.eventsByKind[kind]++
	c.mu.Unlock()
}

// --- Arithmetic ---

// IncCalculation records a completed calculation (one history entry).
func (c *Collector) IncCalculation() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.calculations++
	c.mu.Unlock()
}

// IncDivisionByZero records a division-by-zero failure.
func (c *Collector) IncDivisionByZero() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.divisionByZero++
	c.mu.Unlock()
}

// IncInvalidResult records a non-finite result failure.
func (c *Collector) IncInvalidResult() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.invalidResult++
	c.mu.Unlock()
}

// --- Resets ---

// IncClear records a calculator reset.
func (c *Collector) IncClear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.clears++
	c.mu.Unlock()
}

// IncHistoryClear records a history clear.
func (c *Collector) IncHistoryClear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.historyClears++
	c.mu.Unlock()
}

// --- Storage ---
// Storage counters are per-call: one SaveHistory is one write.

// IncStoreWriteSuccess records a successful store write.
func (c *Collector) IncStoreWriteSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.storeWriteSuccess++
	c.mu.Unlock()
}

// IncStoreWriteFailure records a failed store write.
func (c *Collector) IncStoreWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.storeWriteFailure++
	c.mu.Unlock()
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all metrics.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	byKind := make(map[string]int64, len(c.eventsByKind))
	for k, v := range c.eventsByKind {
		byKind[k] = v
	}

	return Snapshot{
		EventsApplied: c.eventsApplied,
		EventsIgnored: c.eventsIgnored,
		EventsByKind:  byKind,

		Calculations:   c.calculations,
		DivisionByZero: c.divisionByZero,
		InvalidResult:  c.invalidResult,

		Clears:        c.clears,
		HistoryClears: c.historyClears,

		StoreWriteSuccess: c.storeWriteSuccess,
		StoreWriteFailure: c.storeWriteFailure,

		SessionID:      c.sessionID,
		StorageBackend: c.storageBackend,
	}
}
