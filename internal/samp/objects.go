package samp

import (
	"github.com/openmprun/sampd/internal/motion"
	"github.com/openmprun/sampd/internal/pool"
)

const (
	ObjectLower = 1
	ObjectUpper = 2000
)

// ObjectStore owns the global object pool plus the shared-index
// discipline it enforces against every player's per-player object pool:
// the two ranges overlap, and an index a per-player pool is using must
// not also be handed out as a global object id.
type ObjectStore struct {
	pool   *pool.Pool[motion.Object]
	shared *pool.SharedIndexTracker
	Engine *motion.Engine
}

func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		pool:   pool.New[motion.Object](ObjectLower, ObjectUpper, true),
		shared: pool.NewSharedIndexTracker(),
		Engine: motion.NewEngine(),
	}
}

func (s *ObjectStore) Get(id int) *motion.Object { return s.pool.Get(id) }
func (s *ObjectStore) Count() int                { return s.pool.Count() }

// Claim allocates a global object at the lowest index that is both free
// in the global pool and not reserved by any per-player object.
func (s *ObjectStore) Claim(pos, rot Vector3) int {
	for i := ObjectLower; i < ObjectUpper; i++ {
		if s.pool.Get(i) != nil || s.shared.InUse(i) {
			continue
		}
		return s.pool.ClaimHint(i, func(id int) *motion.Object {
			obj := motion.NewObject(id, pos, rot)
			s.Engine.Add(obj)
			return obj
		})
	}
	return -1
}

func (s *ObjectStore) Release(id int) bool {
	s.Engine.Remove(id)
	return s.pool.Release(id, false)
}

// PlayerObjectStore owns one player's per-player object pool. It shares
// the global object index range and reserves whichever index it
// allocates against the ObjectStore so the global pool skips it.
type PlayerObjectStore struct {
	pool   *pool.Pool[motion.PlayerObject]
	global *ObjectStore
	Engine *motion.PlayerEngine
}

func NewPlayerObjectStore(global *ObjectStore) *PlayerObjectStore {
	return &PlayerObjectStore{
		pool:   pool.New[motion.PlayerObject](ObjectLower, ObjectUpper, true),
		global: global,
		Engine: motion.NewPlayerEngine(),
	}
}

func (s *PlayerObjectStore) Get(id int) *motion.PlayerObject { return s.pool.Get(id) }
func (s *PlayerObjectStore) Count() int                      { return s.pool.Count() }

// Claim allocates a per-player object at the lowest index free both in
// this player's own pool and in the global object pool, then reserves
// that index against the global pool.
func (s *PlayerObjectStore) Claim(player int, pos, rot Vector3) int {
	for i := ObjectLower; i < ObjectUpper; i++ {
		if s.pool.Get(i) != nil || s.global.pool.Get(i) != nil {
			continue
		}
		id := s.pool.ClaimHint(i, func(id int) *motion.PlayerObject {
			obj := motion.NewPlayerObject(id, player, pos, rot)
			s.Engine.Add(obj)
			return obj
		})
		if id >= 0 {
			s.global.shared.Acquire(id)
		}
		return id
	}
	return -1
}

func (s *PlayerObjectStore) Release(id int) bool {
	s.Engine.Remove(id)
	released := s.pool.Release(id, false)
	if released {
		s.global.shared.Release(id)
	}
	return released
}
