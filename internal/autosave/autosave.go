// Package autosave debounces canvas saves: every mutation marks the
// canvas dirty, and a short-TTL cache entry collapses bursts of keystrokes
// into a single save once the burst goes quiet. Grounded on the teacher's
// internal/cachemanager (github.com/patrickmn/go-cache as a TTL-expiring
// flag), repurposed here as a single-key debounce rather than a
// general-purpose read-through cache — this supplements spec.md §4.4's
// explicit Ctrl-S/Ctrl-W save without changing its semantics (spec.md
// §2.9 of SPEC_FULL.md): autosave is additive, never a replacement.
package autosave

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const settlingKey = "settling"

// Debouncer tracks whether a save is owed once the current burst of edits
// goes quiet for Interval. armed records that at least one Mark has
// happened since the last Clear; the cache entry is only the settling
// window, so Due never fires before any mutation occurred.
type Debouncer struct {
	cache    *gocache.Cache
	interval time.Duration
	armed    bool
}

// New creates a Debouncer that considers a save owed Interval after the
// most recent Mark call, unless Marked again before then.
func New(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Debouncer{
		cache:    gocache.New(interval, interval*2),
		interval: interval,
	}
}

// Mark records a mutation, (re)starting the debounce window.
func (d *Debouncer) Mark() {
	d.armed = true
	d.cache.Set(settlingKey, true, gocache.DefaultExpiration)
}

// Due reports whether at least one Mark has landed and the debounce window
// has elapsed since the most recent one — i.e. a save is owed. It is a
// poll, not a push: the caller (a tea.Tick loop) calls Due and, if true,
// calls Clear after saving.
func (d *Debouncer) Due() bool {
	if !d.armed {
		return false
	}
	_, stillSettling := d.cache.Get(settlingKey)
	return !stillSettling
}

// Clear drops the pending flag; called after a successful autosave so the
// next Mark starts a fresh window.
func (d *Debouncer) Clear() {
	d.armed = false
	d.cache.Delete(settlingKey)
}
