// Package history keeps the bounded log of completed calculations.
//
// Entries are ordered oldest first (most recent last). When the log is full
// the oldest entry is evicted.
package history

// DefaultCapacity is the number of entries a log keeps.
const DefaultCapacity = 10

// Log is a bounded, append-only list of formatted calculations.
// It is not safe for concurrent use; a log belongs to one session.
type Log struct {
	entries  []string
	capacity int
}

// New creates an empty log holding up to DefaultCapacity entries.
func New() *Log {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity creates an empty log holding up to capacity entries.
// Capacities below one are raised to one.
func NewWithCapacity(capacity int) *Log {
	if capacity < 1 {
		capacity = 1
	}
	return &Log{
		entries:  make([]string, 0, capacity),
		capacity: capacity,
	}
}

// Record appends entry, evicting the oldest entry beyond capacity.
func (l *Log) Record(entry string) {
	l.entries = append(l.entries, entry)
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
}

// Clear empties the log.
func (l *Log) Clear() {
	l.entries = l.entries[:0]
}

// Replace swaps the contents for entries (oldest first), keeping only the
// newest entries that fit. Used to restore a persisted log.
func (l *Log) Replace(entries []string) {
	if over := len(entries) - l.capacity; over > 0 {
		entries = entries[over:]
	}
	l.entries = append(l.entries[:0], entries...)
}

// Entries returns a copy of the entries, oldest first.
func (l *Log) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Newest returns a copy of the entries, most recent first.
func (l *Log) Newest() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Latest returns the most recent entry and whether one exists.
func (l *Log) Latest() (string, bool) {
	if len(l.entries) == 0 {
		return "", false
	}
	return l.entries[len(l.entries)-1], true
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Capacity returns the maximum number of entries.
func (l *Log) Capacity() int {
	return l.capacity
}
