package tui

import (
	"context"
	"sync"
)

// write is one queued Sink call.
type write struct {
	op string
	fn func(context.Context) error
}

// writeQueue runs Sink writes one at a time in the order Update queued
// them. Every Cmd drains the whole queue, so a Cmd may run writes queued
// after it; the order on the Sink stays the order of the key presses.
type writeQueue struct {
	run sync.Mutex // held while writes execute

	mu      sync.Mutex
	pending []write
}

func (q *writeQueue) push(w write) {
	q.mu.Lock()
	q.pending = append(q.pending, w)
	q.mu.Unlock()
}

func (q *writeQueue) pop() (write, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return write{}, false
	}
	w := q.pending[0]
	q.pending = q.pending[1:]
	return w, true
}

// drain runs every queued write and returns the first failure. Later
// writes still run after a failure.
func (q *writeQueue) drain(ctx context.Context) savedMsg {
	q.run.Lock()
	defer q.run.Unlock()

	var failed savedMsg
	for {
		w, ok := q.pop()
		if !ok {
			return failed
		}
		if err := w.fn(ctx); err != nil && failed.err == nil {
			failed = savedMsg{op: w.op, err: err}
		}
	}
}
