// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

package dispatch

// Indexed is an array of N plain dispatchers, addressed by a
// bounds-checked integer key. It backs the packet- and RPC-id fan-out
// tables, each sized to 256.
type Indexed[H comparable] struct {
	slots []*Dispatcher[H]
}

// NewIndexed returns an indexed dispatcher with capacity slots, each an
// independently empty plain dispatcher.
func NewIndexed[H comparable](capacity int) *Indexed[H] {
	slots := make([]*Dispatcher[H], capacity)
	for i := range slots {
		slots[i] = New[H]()
	}
	return &Indexed[H]{slots: slots}
}

// Capacity returns the number of addressable indices.
func (ix *Indexed[H]) Capacity() int { return len(ix.slots) }

// At returns the plain dispatcher for index, or nil if index is out of
// range.
func (ix *Indexed[H]) At(index int) *Dispatcher[H] {
	if index < 0 || index >= len(ix.slots) {
		return nil
	}
	return ix.slots[index]
}

// Add registers handler at index and priority. Returns false if index
// is out of range or handler is already registered there.
func (ix *Indexed[H]) Add(index int, handler H, priority int8) bool {
	d := ix.At(index)
	if d == nil {
		return false
	}
	return d.Add(handler, priority)
}

// Remove deregisters handler at index. Returns false if index is out
// of range or handler was not registered there.
func (ix *Indexed[H]) Remove(index int, handler H) bool {
	d := ix.At(index)
	if d == nil {
		return false
	}
	return d.Remove(handler)
}
