// Package logring is the renderer's bounded view of the log facade: the
// last 5 entries, reverse-chronological, the single-writer/multiple-reader
// structure spec.md §5 requires ("the log ring is the only cross-thread
// state in the system"). Grounded on the original source's
// logging::read_logs (a mutex-guarded Vec<String> truncated to 5, newest
// first) but fed by the pubsub broker instead of a global lazy_static so
// it can be constructed per-app rather than as module-level state
// (spec.md §9).
package logring

import (
	"context"
	"sync"

	"scrawl/internal/pubsub"
)

const capacity = 5

// Ring keeps the most recent log lines, newest first.
type Ring struct {
	mu    sync.RWMutex
	lines []string
}

// New subscribes to the given broker for the lifetime of ctx and keeps the
// ring updated as entries arrive.
func New(ctx context.Context, broker *pubsub.Broker[string]) *Ring {
	r := &Ring{}
	ch := broker.Subscribe(ctx)
	go func() {
		for ev := range ch {
			r.push(ev.Payload)
		}
	}()
	return r
}

func (r *Ring) push(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append([]string{line}, r.lines...)
	if len(r.lines) > capacity {
		r.lines = r.lines[:capacity]
	}
}

// Lines returns a snapshot of the ring, newest first.
func (r *Ring) Lines() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.lines))
	copy(out, r.lines)
	return out
}
