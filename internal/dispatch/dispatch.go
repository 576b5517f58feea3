// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

// Package dispatch implements the priority-ordered listener registries
// used for every cross-component notification: plain dispatchers keyed
// by handler identity, and indexed dispatchers that fan a byte-sized
// key out to one plain dispatcher per value. The core runtime is
// single-threaded and cooperative, so unlike a concurrent pub/sub
// registry these hold no locks; callers on the main loop own all
// synchronization.
package dispatch

import "sort"

// entry is one registered listener. H is the concrete handler
// interface a given dispatcher instance is parameterized over (for
// example, an onTick(elapsed, now) interface).
type entry[H any] struct {
	handler  H
	priority int8
	seq      int
}

// Dispatcher is an ordered collection of (priority, handler) pairs,
// unique by handler identity, with five call-shapes layered on top:
// all, stopAtFalse, stopAtTrue, anyTrue, allTrue.
type Dispatcher[H comparable] struct {
	entries []entry[H]
	nextSeq int
}

// New returns an empty dispatcher.
func New[H comparable]() *Dispatcher[H] {
	return &Dispatcher[H]{}
}

// Add registers handler at priority (lower fires first). Returns false
// if handler is already registered.
func (d *Dispatcher[H]) Add(handler H, priority int8) bool {
	for i := range d.entries {
		if d.entries[i].handler == handler {
			return false
		}
	}
	d.entries = append(d.entries, entry[H]{handler: handler, priority: priority, seq: d.nextSeq})
	d.nextSeq++
	sort.SliceStable(d.entries, func(i, j int) bool {
		return d.entries[i].priority < d.entries[j].priority ||
			(d.entries[i].priority == d.entries[j].priority && d.entries[i].seq < d.entries[j].seq)
	})
	return true
}

// Remove deregisters handler. Returns false if it was not registered.
func (d *Dispatcher[H]) Remove(handler H) bool {
	for i := range d.entries {
		if d.entries[i].handler == handler {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Has reports whether handler is registered and, if so, its priority.
func (d *Dispatcher[H]) Has(handler H) (priority int8, ok bool) {
	for i := range d.entries {
		if d.entries[i].handler == handler {
			return d.entries[i].priority, true
		}
	}
	return 0, false
}

// Count returns the number of registered handlers.
func (d *Dispatcher[H]) Count() int { return len(d.entries) }

// snapshot copies the current ordered handler list so a handler
// registered from inside a handler does not join the dispatch already
// in progress. Removals still take effect mid-pass (see isRegistered).
func (d *Dispatcher[H]) snapshot() []H {
	out := make([]H, len(d.entries))
	for i := range d.entries {
		out[i] = d.entries[i].handler
	}
	return out
}

// isRegistered reports whether handler is still present in the live
// entries list. Each call-shape below rechecks this against d.entries
// (not the snapshot) before invoking a handler, so one removed by an
// earlier handler in the same pass is skipped instead of still firing.
func (d *Dispatcher[H]) isRegistered(handler H) bool {
	for i := range d.entries {
		if d.entries[i].handler == handler {
			return true
		}
	}
	return false
}

// All calls call on every handler in priority/insertion order,
// ignoring return values.
func All[H comparable](d *Dispatcher[H], call func(H)) {
	for _, h := range d.snapshot() {
		if !d.isRegistered(h) {
			continue
		}
		call(h)
	}
}

// StopAtFalse calls call on each handler until one returns false. The
// overall result is whether every handler returned true; once a
// handler returns false, later handlers are not called.
func StopAtFalse[H comparable](d *Dispatcher[H], call func(H) bool) bool {
	for _, h := range d.snapshot() {
		if !d.isRegistered(h) {
			continue
		}
		if !call(h) {
			return false
		}
	}
	return true
}

// StopAtTrue calls call on each handler until one returns true. The
// overall result is whether any handler returned true; once a handler
// returns true, later handlers are not called.
func StopAtTrue[H comparable](d *Dispatcher[H], call func(H) bool) bool {
	for _, h := range d.snapshot() {
		if !d.isRegistered(h) {
			continue
		}
		if call(h) {
			return true
		}
	}
	return false
}

// AnyTrue calls call on every handler, with no short-circuit, and
// returns whether any call returned true.
func AnyTrue[H comparable](d *Dispatcher[H], call func(H) bool) bool {
	any := false
	for _, h := range d.snapshot() {
		if !d.isRegistered(h) {
			continue
		}
		if call(h) {
			any = true
		}
	}
	return any
}

// AllTrue calls call on every handler, with no short-circuit, and
// returns whether every call returned true.
func AllTrue[H comparable](d *Dispatcher[H], call func(H) bool) bool {
	all := true
	for _, h := range d.snapshot() {
		if !d.isRegistered(h) {
			continue
		}
		if !call(h) {
			all = false
		}
	}
	return all
}
