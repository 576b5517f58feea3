package motion

import (
	"sort"
	"time"
)

// Engine owns the live set of world objects and advances the ones that
// still need per-tick work: moving objects, and objects still waiting out
// a per-observer stream-in delay.
type Engine struct {
	objects    map[int]*Object
	processed  *ProcessedSet
	attachedTo map[int]struct{} // object ids currently attached to a player
}

func NewEngine() *Engine {
	return &Engine{
		objects:    make(map[int]*Object),
		processed:  NewProcessedSet(),
		attachedTo: make(map[int]struct{}),
	}
}

func (e *Engine) Add(obj *Object)    { e.objects[obj.ID] = obj }
func (e *Engine) Get(id int) *Object { return e.objects[id] }

func (e *Engine) Remove(id int) {
	delete(e.objects, id)
	e.processed.Remove(id)
	delete(e.attachedTo, id)
	e.DetachFromObject(id)
}

// Move starts obj moving toward data, stopping any move already underway,
// and adds it to the processed set until it arrives.
func (e *Engine) Move(obj *Object, data MoveData) MoveData {
	if obj.IsMoving() {
		obj.Stop()
	}
	e.processed.Add(obj.ID)
	return obj.Body.Move(data)
}

// Stop halts obj's move in place and drops it from the processed set if
// nothing else still needs it ticked.
func (e *Engine) Stop(obj *Object) {
	obj.Body.Stop()
	e.reapIfIdle(obj)
}

func (e *Engine) reapIfIdle(obj *Object) {
	if obj.IsMoving() || obj.HasDelayedProcessing() {
		return
	}
	e.processed.Remove(obj.ID)
}

// StreamIn schedules player's delayed-processing deadline for obj, adds
// obj to the processed set so the deadline gets checked each tick, and
// records player as a restream observer of obj.
func (e *Engine) StreamIn(obj *Object, player int, now time.Time) {
	obj.DelayProcessing(player, now)
	obj.streamIn(player)
	e.processed.Add(obj.ID)
}

// StreamOut forgets that player can currently see obj, so a later
// restream no longer targets them.
func (e *Engine) StreamOut(obj *Object, player int) {
	obj.streamOut(player)
}

// Restream reports the observers a follow-up of kind must be sent to
// for obj. Callers invoke a property-changing method on Object (which
// mutates state and reports the RestreamKind it needs) and pass the
// result through here to resolve the audience.
func (e *Engine) Restream(obj *Object, kind RestreamKind) RestreamEvent {
	if kind == RestreamNone {
		return RestreamEvent{Kind: RestreamNone}
	}
	return RestreamEvent{Kind: kind, Players: obj.StreamedFor()}
}

// AttachToPlayer attaches obj to player and tracks the dependency so it can
// be torn down in one pass when player disconnects.
func (e *Engine) AttachToPlayer(obj *Object, player int, offset, rotation Vector3) RestreamEvent {
	kind := obj.AttachToPlayer(player, offset, rotation)
	e.attachedTo[obj.ID] = struct{}{}
	return e.Restream(obj, kind)
}

// AttachToObject attaches obj to the object identified by target,
// refusing a self-attach and any attachment that would close a cycle
// in the attachment graph. ok is false (and obj is left unchanged) if
// either check fails.
func (e *Engine) AttachToObject(obj *Object, target int, offset, rotation Vector3) (ev RestreamEvent, ok bool) {
	if obj.ID == target {
		return RestreamEvent{}, false
	}
	if e.wouldCycle(target, obj.ID) {
		return RestreamEvent{}, false
	}
	kind := obj.AttachToObject(target, offset, rotation)
	return e.Restream(obj, kind), true
}

// wouldCycle walks the AttachObject chain starting at id, reporting
// whether it ever reaches target. Used to refuse an attach that would
// close a loop in the attachment graph before it is made.
func (e *Engine) wouldCycle(id, target int) bool {
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
func (e *Engine) AttachToVehicle(obj *Object, vehicle int, offset, rotation Vector3) RestreamEvent {
	kind := obj.AttachToVehicle(vehicle, offset, rotation)
	return e.Restream(obj, kind)
}

func (e *Engine) ResetAttachment(obj *Object) RestreamEvent {
	delete(e.attachedTo, obj.ID)
	kind := obj.ResetAttachment()
	return e.Restream(obj, kind)
}

// DetachFromObject resets the attachment of every object whose
// attachment graph target is removedID, called when that object is
// released so no object is left referencing a freed id.
func (e *Engine) DetachFromObject(removedID int) []int {
	var detached []int
	for id, obj := range e.objects {
		if obj.Attachment.Type == AttachObject && obj.Attachment.ID == removedID {
			detached = append(detached, id)
		}
	}
	sort.Ints(detached)
	for _, id := range detached {
		e.ResetAttachment(e.objects[id])
	}
	return detached
}

// DetachFromPlayer resets the attachment of every object currently
// attached to player, called when that player disconnects so no object is
// left referencing a player id that no longer exists.
func (e *Engine) DetachFromPlayer(player int) []int {
	var detached []int
	for id := range e.attachedTo {
		obj, ok := e.objects[id]
		if !ok {
			continue
		}
		if obj.Attachment.Type == AttachPlayer && obj.Attachment.ID == player {
			detached = append(detached, id)
		}
	}
	for _, id := range detached {
		e.ResetAttachment(e.objects[id])
	}
	return detached
}

// ReadyEvent names a player whose delayed-processing deadline for an object
// has just elapsed: the caller should now send the object's current move
// state (if moving) and attach-to-player follow-up (if attached and
// streamed in for that player) to them.
type ReadyEvent struct {
	ObjectID int
	Player   int
}

// Tick advances every object that needs it: in-flight moves step forward
// by elapsed, and any observer whose stream-in delay has elapsed since the
// last tick is reported so the caller can send its follow-up state.
func (e *Engine) Tick(elapsed time.Duration, now time.Time) []ReadyEvent {
	var ready []ReadyEvent

	e.processed.Each(func(id int) {
		obj, ok := e.objects[id]
		if !ok {
			e.processed.Remove(id)
			return
		}

		if obj.HasDelayedProcessing() {
			for _, player := range obj.ReadyPlayers(now) {
				ready = append(ready, ReadyEvent{ObjectID: id, Player: player})
			}
			e.reapIfIdle(obj)
		}

		if obj.Advance(elapsed) {
			e.reapIfIdle(obj)
		}
	})

	return ready
}
