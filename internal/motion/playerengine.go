package motion

import "time"

// PlayerEngine owns one player's set of scoped objects and advances the
// ones that still need per-tick work. It mirrors Engine's bookkeeping but
// without the per-observer fan-out, since a PlayerObject has exactly one
// observer: the player it belongs to.
type PlayerEngine struct {
	objects   map[int]*PlayerObject
	processed *ProcessedSet
}

func NewPlayerEngine() *PlayerEngine {
	return &PlayerEngine{
		objects:   make(map[int]*PlayerObject),
		processed: NewProcessedSet(),
	}
}

func (e *PlayerEngine) Add(obj *PlayerObject)    { e.objects[obj.ID] = obj }
func (e *PlayerEngine) Get(id int) *PlayerObject { return e.objects[id] }

func (e *PlayerEngine) Remove(id int) {
	delete(e.objects, id)
	e.processed.Remove(id)
	e.DetachFromObject(id)
}

func (e *PlayerEngine) Move(obj *PlayerObject, data MoveData) MoveData {
	if obj.IsMoving() {
		obj.Stop()
	}
	e.processed.Add(obj.ID)
	return obj.Body.Move(data)
}

func (e *PlayerEngine) Stop(obj *PlayerObject) {
	obj.Body.Stop()
	e.reapIfIdle(obj)
}

func (e *PlayerEngine) reapIfIdle(obj *PlayerObject) {
	if obj.IsMoving() || obj.HasDelayedProcessing() {
		return
	}
	e.processed.Remove(obj.ID)
}

// StreamIn schedules the one-second delayed-processing deadline for a
// freshly created object and adds it to the processed set.
func (e *PlayerEngine) StreamIn(obj *PlayerObject, now time.Time) {
	obj.DelayProcessing(now)
	e.processed.Add(obj.ID)
}

// Restream resolves the restream audience for obj: its single owning
// player, or nobody if kind is RestreamNone.
func (e *PlayerEngine) Restream(obj *PlayerObject, kind RestreamKind) RestreamEvent {
	if kind == RestreamNone {
		return RestreamEvent{Kind: RestreamNone}
	}
	return RestreamEvent{Kind: kind, Players: obj.StreamedFor()}
}

// AttachToPlayer attaches obj to player.
func (e *PlayerEngine) AttachToPlayer(obj *PlayerObject, player int, offset, rotation Vector3) RestreamEvent {
	kind := obj.AttachToPlayer(player, offset, rotation)
	return e.Restream(obj, kind)
}

// AttachToObject attaches obj to the object identified by target,
// refusing a self-attach and any attachment that would close a cycle
// in the attachment graph formed by this player's own objects. ok is
// false (and obj is left unchanged) if either check fails.
func (e *PlayerEngine) AttachToObject(obj *PlayerObject, target int, offset, rotation Vector3) (ev RestreamEvent, ok bool) {
	if obj.ID == target {
		return RestreamEvent{}, false
	}
	if e.wouldCycle(target, obj.ID) {
		return RestreamEvent{}, false
	}
	kind := obj.AttachToObject(target, offset, rotation)
	return e.Restream(obj, kind), true
}

// wouldCycle walks the AttachObject chain starting at id within this
// player's own objects, reporting whether it ever reaches target. An
// attachment target living in another engine (a global object, or
// another player's object) cannot close a cycle back here, so the walk
// stops as soon as it leaves this engine's object set.
func (e *PlayerEngine) wouldCycle(id, target int) bool {
	seen := make(map[int]struct{})
	for {
		if id == target {
			return true
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}

		obj, ok := e.objects[id]
		if !ok || obj.Attachment.Type != AttachObject {
			return false
		}
		id = obj.Attachment.ID
	}
}

// AttachToVehicle attaches obj to vehicle at offset/rotation.
func (e *PlayerEngine) AttachToVehicle(obj *PlayerObject, vehicle int, offset, rotation Vector3) RestreamEvent {
	kind := obj.AttachToVehicle(vehicle, offset, rotation)
	return e.Restream(obj, kind)
}

func (e *PlayerEngine) ResetAttachment(obj *PlayerObject) RestreamEvent {
	kind := obj.ResetAttachment()
	return e.Restream(obj, kind)
}

// DetachFromObject resets the attachment of every object in this
// engine whose attachment graph target is removedID, called when that
// object is released so no object is left referencing a freed id.
func (e *PlayerEngine) DetachFromObject(removedID int) []int {
	var detached []int
	for id, obj := range e.objects {
		if obj.Attachment.Type == AttachObject && obj.Attachment.ID == removedID {
			detached = append(detached, id)
		}
	}
	for _, id := range detached {
		e.ResetAttachment(e.objects[id])
	}
	return detached
}

// PlayerReadyEvent names an object whose delayed-processing deadline has
// just elapsed for its owning player.
type PlayerReadyEvent struct {
	ObjectID int
}

func (e *PlayerEngine) Tick(elapsed time.Duration, now time.Time) []PlayerReadyEvent {
	var ready []PlayerReadyEvent

	e.processed.Each(func(id int) {
		obj, ok := e.objects[id]
		if !ok {
			e.processed.Remove(id)
			return
		}

		if obj.Ready(now) {
			ready = append(ready, PlayerReadyEvent{ObjectID: id})
			e.reapIfIdle(obj)
		}

		if obj.Advance(elapsed) {
			e.reapIfIdle(obj)
		}
	})

	return ready
}
