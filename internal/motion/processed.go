package motion

import "sort"

// ProcessedSet tracks the ids of entities that need Advance called on them
// every tick, so a caller can skip everything at rest instead of walking
// the full object pool each tick.
type ProcessedSet struct {
	ids map[int]struct{}
}

func NewProcessedSet() *ProcessedSet {
	return &ProcessedSet{ids: make(map[int]struct{})}
}

func (s *ProcessedSet) Add(id int)    { s.ids[id] = struct{}{} }
func (s *ProcessedSet) Remove(id int) { delete(s.ids, id) }

func (s *ProcessedSet) Has(id int) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *ProcessedSet) Len() int { return len(s.ids) }

// Each visits a stable, sorted snapshot of the set so fn may add or remove
// entries — including the one currently being visited — without disturbing
// the rest of this pass.
func (s *ProcessedSet) Each(fn func(id int)) {
	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		fn(id)
	}
}
