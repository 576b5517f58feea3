// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

// Package pool implements the fixed-range entity pool shared by every
// game object type (players, vehicles, objects, text labels, ...): a
// bitset of occupied slots addressed by a stable integer id, a
// lowest-free-index cursor, and two lifetime disciplines — immediate
// release and reference-counted ("marked") release that defers
// destruction while an iterator or an event handler holds a scoped
// lock on the slot.
package pool

import "github.com/openmprun/sampd/internal/dispatch"

// Lifecycle is the event shape every pool dispatches on claim/release.
type Lifecycle[T any] interface {
	OnPoolEntryCreated(entry *T)
	OnPoolEntryDestroyed(entry *T)
}

// Pool is a fixed-capacity [lower, upper) range of slots of type T,
// addressed by integer index. Immediate-mode pools (marked=false)
// release entries synchronously; marked-mode pools (marked=true) carry
// a per-slot reference count and defer release until the count drops
// to zero.
type Pool[T any] struct {
	lower, upper    int
	marked          bool
	slots           []*T
	refCount        []uint8
	deletePending   []bool
	occupied        []bool
	lowestFreeIndex int
	events          *dispatch.Dispatcher[Lifecycle[T]]
}

// New returns an empty pool over [lower, upper).
func New[T any](lower, upper int, marked bool) *Pool[T] {
	n := upper - lower
	return &Pool[T]{
		lower:           lower,
		upper:           upper,
		marked:          marked,
		slots:           make([]*T, n),
		refCount:        make([]uint8, n),
		deletePending:   make([]bool, n),
		occupied:        make([]bool, n),
		lowestFreeIndex: lower,
		events:          dispatch.New[Lifecycle[T]](),
	}
}

// Bounds returns the pool's configured [lower, upper) range.
func (p *Pool[T]) Bounds() (lower, upper int) { return p.lower, p.upper }

// Events returns the pool's lifecycle dispatcher.
func (p *Pool[T]) Events() *dispatch.Dispatcher[Lifecycle[T]] { return p.events }

func (p *Pool[T]) slotIndex(id int) int { return id - p.lower }

func (p *Pool[T]) inRange(id int) bool { return id >= p.lower && id < p.upper }

// Get returns the entry at id, or nil if id is out of range or unoccupied.
func (p *Pool[T]) Get(id int) *T {
	if !p.inRange(id) {
		return nil
	}
	i := p.slotIndex(id)
	if !p.occupied[i] {
		return nil
	}
	return p.slots[i]
}

// Count returns the number of occupied slots.
func (p *Pool[T]) Count() int {
	n := 0
	for _, occ := range p.occupied {
		if occ {
			n++
		}
	}
	return n
}

// Claim finds the lowest free index at or after the cursor, stores
// newEntry there, advances the cursor if needed, dispatches
// onPoolEntryCreated, and returns the claimed id. Returns -1 if the
// pool is full.
func (p *Pool[T]) Claim(newEntry func(id int) *T) int {
	for i := p.lowestFreeIndex - p.lower; i < len(p.occupied); i++ {
		if !p.occupied[i] {
			return p.claimAt(i, newEntry)
		}
	}
	return -1
}

// ClaimHint tries id first; if taken or out of range, falls back to
// Claim.
func (p *Pool[T]) ClaimHint(id int, newEntry func(id int) *T) int {
	if p.inRange(id) {
		i := p.slotIndex(id)
		if !p.occupied[i] {
			return p.claimAt(i, newEntry)
		}
	}
	return p.Claim(newEntry)
}

func (p *Pool[T]) claimAt(i int, newEntry func(id int) *T) int {
	id := p.lower + i
	entry := newEntry(id)
	p.slots[i] = entry
	p.occupied[i] = true
	p.refCount[i] = 0
	p.deletePending[i] = false
	if id == p.lowestFreeIndex {
		p.advanceCursor()
	}
	dispatch.All(p.events, func(h Lifecycle[T]) { h.OnPoolEntryCreated(entry) })
	return id
}

func (p *Pool[T]) advanceCursor() {
	for i := p.lowestFreeIndex - p.lower; i < len(p.occupied); i++ {
		if !p.occupied[i] {
			p.lowestFreeIndex = p.lower + i
			return
		}
	}
	p.lowestFreeIndex = p.upper
}

// Release frees the entry at id. In immediate mode this happens
// synchronously. In marked mode, if the slot's reference count is
// nonzero the release is deferred (delete-pending is set instead)
// unless force is true, which bypasses the pending step and is only
// meant for pool teardown.
func (p *Pool[T]) Release(id int, force bool) bool {
	if !p.inRange(id) {
		return false
	}
	i := p.slotIndex(id)
	if !p.occupied[i] {
		return false
	}
	if p.marked && p.refCount[i] > 0 && !force {
		p.deletePending[i] = true
		return true
	}
	p.clearSlot(i)
	return true
}

func (p *Pool[T]) clearSlot(i int) {
	entry := p.slots[i]
	dispatch.All(p.events, func(h Lifecycle[T]) { h.OnPoolEntryDestroyed(entry) })
	p.slots[i] = nil
	p.occupied[i] = false
	p.refCount[i] = 0
	p.deletePending[i] = false
	id := p.lower + i
	if id < p.lowestFreeIndex {
		p.lowestFreeIndex = id
	}
}

// Lock increments the reference count on id, postponing release until
// a matching Unlock. Only meaningful for marked pools; a no-op on
// immediate-mode pools.
func (p *Pool[T]) Lock(id int) {
	if !p.marked || !p.inRange(id) {
		return
	}
	i := p.slotIndex(id)
	if p.occupied[i] {
		p.refCount[i]++
	}
}

// Unlock decrements the reference count on id and, if it has reached
// zero and the slot is delete-pending, releases it immediately.
// Returns true if the slot was released as a result.
func (p *Pool[T]) Unlock(id int) bool {
	if !p.marked || !p.inRange(id) {
		return false
	}
	i := p.slotIndex(id)
	if !p.occupied[i] || p.refCount[i] == 0 {
		return false
	}
	p.refCount[i]--
	if p.refCount[i] == 0 && p.deletePending[i] {
		p.clearSlot(i)
		return true
	}
	return false
}

// ScopedLock acquires a Lock(id) and returns a handle whose Release
// method unlocks it. Any code path that dispatches an event whose
// handler might release the entity should hold one of these across the
// call.
type ScopedLock[T any] struct {
	pool *Pool[T]
	id   int
}

// Acquire locks id for the duration the returned handle is held.
func (p *Pool[T]) Acquire(id int) ScopedLock[T] {
	p.Lock(id)
	return ScopedLock[T]{pool: p, id: id}
}

// Release unlocks the id this handle was acquired for. Safe to call
// once; subsequent calls are no-ops.
func (s *ScopedLock[T]) Release() {
	if s.pool == nil {
		return
	}
	s.pool.Unlock(s.id)
	s.pool = nil
}

// Each calls fn for every occupied entry in ascending id order. In
// marked pools the entry currently visited is locked for the duration
// of fn, so fn may call Release on it (the effect is deferred until
// Each moves past it) without invalidating iteration; entries removed
// by id elsewhere in fn are likewise safe since iteration never holds
// a position by pointer.
func (p *Pool[T]) Each(fn func(id int, entry *T)) {
	for i := 0; i < len(p.occupied); i++ {
		if !p.occupied[i] {
			continue
		}
		id := p.lower + i
		lock := p.Acquire(id)
		fn(id, p.slots[i])
		lock.Release()
	}
}
