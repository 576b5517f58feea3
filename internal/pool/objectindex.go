// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

package pool

// SharedIndexTracker implements the global/per-player object id
// discipline: per-player objects and global objects share one index
// space, so the global pool must not reclaim an index a per-player
// pool is still using under a different player.
//
// Reclaim is intentionally disabled once a counter returns to zero,
// carried forward unchanged from the source this was ported from: the
// refcount only gates concurrent per-player use, while reserved
// tracks every index ever acquired and is never cleared, so the
// global pool treats it as permanently spoken for.
type SharedIndexTracker struct {
	refs     map[int]int
	reserved map[int]struct{}
}

// NewSharedIndexTracker returns an empty tracker.
func NewSharedIndexTracker() *SharedIndexTracker {
	return &SharedIndexTracker{refs: make(map[int]int), reserved: make(map[int]struct{})}
}

// Acquire increments the per-index counter for a newly claimed
// per-player object at index i and marks i as reserved forever.
func (t *SharedIndexTracker) Acquire(i int) {
	t.refs[i]++
	t.reserved[i] = struct{}{}
}

// Release decrements the per-index counter for index i when a
// per-player object using it is released. It never un-reserves i.
func (t *SharedIndexTracker) Release(i int) {
	if t.refs[i] > 0 {
		t.refs[i]--
	}
}

// InUse reports whether index i has ever been acquired, meaning the
// global pool must skip it when allocating. Unlike the refcount, this
// never goes back to false once set.
func (t *SharedIndexTracker) InUse(i int) bool {
	_, ok := t.reserved[i]
	return ok
}
