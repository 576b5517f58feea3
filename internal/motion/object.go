package motion

import (
	"sort"
	"time"
)

// StreamInDelay is how long a newly streamed-in object's move/attach state
// is withheld from a given observer: the create-object handshake must land
// on the client before any follow-up move or attach RPC, or the client
// applies the follow-up to an object it hasn't created yet.
const StreamInDelay = time.Second

// Object is a world object potentially visible to many players at once.
// Each observer gets its own delayed-processing deadline, since objects
// stream in and out of range independently per player.
type Object struct {
	Body
	ID         int
	Attachment AttachmentData

	Model           int
	DrawDistance    float32
	CameraCollision bool
	Materials       [MaterialSlotCount]Material

	delayedUntil map[int]time.Time
	streamedFor  map[int]struct{}
}

// NewObject creates a world object at rest at pos/rot, with camera
// collision enabled by default as the client assumes unless told
// otherwise.
func NewObject(id int, pos, rot Vector3) *Object {
	return &Object{
		Body:            NewBody(pos, rot),
		ID:              id,
		CameraCollision: true,
		delayedUntil:    make(map[int]time.Time),
		streamedFor:     make(map[int]struct{}),
	}
}

// DelayProcessing withholds this object's move/attach state from player
// until StreamInDelay has passed, called when the object streams in for
// that player.
func (o *Object) DelayProcessing(player int, now time.Time) {
	o.delayedUntil[player] = now.Add(StreamInDelay)
}

func (o *Object) HasDelayedProcessing() bool {
	return len(o.delayedUntil) > 0
}

// ReadyPlayers returns and clears the players whose delayed-processing
// deadline has elapsed as of now, in ascending player-id order.
func (o *Object) ReadyPlayers(now time.Time) []int {
	var ready []int
	for player, deadline := range o.delayedUntil {
		if !now.Before(deadline) {
			ready = append(ready, player)
		}
	}
	sort.Ints(ready)
	for _, player := range ready {
		delete(o.delayedUntil, player)
	}
	return ready
}

// streamIn records player as currently able to see this object, the
// audience a future restream follow-up goes to.
func (o *Object) streamIn(player int) {
	o.streamedFor[player] = struct{}{}
}

// streamOut forgets that player can currently see this object.
func (o *Object) streamOut(player int) {
	delete(o.streamedFor, player)
}

// StreamedFor returns the players this object is currently streamed
// in for, in ascending order.
func (o *Object) StreamedFor() []int {
	ids := make([]int, 0, len(o.streamedFor))
	for player := range o.streamedFor {
		ids = append(ids, player)
	}
	sort.Ints(ids)
	return ids
}

// AttachToPlayer attaches this object to player at offset/rotation, always
// syncing rotation the way a world object attached to a player does.
// Attachment is a restreamed property: the caller must destroy/create
// this object for every current observer.
func (o *Object) AttachToPlayer(player int, offset, rotation Vector3) RestreamKind {
	o.Attachment = AttachmentData{Type: AttachPlayer, ID: player, Offset: offset, Rotation: rotation, SyncRotation: true}
	return RestreamFull
}

// AttachToObject attaches this object to another object (global or
// per-player — the two share one id space) at offset/rotation.
// Callers must use Engine.AttachToObject instead of this method
// directly so the self-attach and cycle checks run first.
func (o *Object) AttachToObject(target int, offset, rotation Vector3) RestreamKind {
	o.Attachment = AttachmentData{Type: AttachObject, ID: target, Offset: offset, Rotation: rotation, SyncRotation: true}
	return RestreamFull
}

// AttachToVehicle attaches this object to vehicle at offset/rotation,
// always syncing rotation the way a world object bolted to a vehicle
// does.
func (o *Object) AttachToVehicle(vehicle int, offset, rotation Vector3) RestreamKind {
	o.Attachment = AttachmentData{Type: AttachVehicle, ID: vehicle, Offset: offset, Rotation: rotation, SyncRotation: true}
	return RestreamFull
}

func (o *Object) ResetAttachment() RestreamKind {
	o.Attachment = AttachmentData{Type: AttachNone}
	return RestreamFull
}

// SetModel changes this object's model, a restreamed property.
func (o *Object) SetModel(model int) RestreamKind {
	o.Model = model
	return RestreamFull
}

// SetDrawDistance changes this object's draw distance, a restreamed
// property.
func (o *Object) SetDrawDistance(distance float32) RestreamKind {
	o.DrawDistance = distance
	return RestreamFull
}

// SetCameraCollision toggles whether the game camera collides with
// this object, a restreamed property.
func (o *Object) SetCameraCollision(enabled bool) RestreamKind {
	o.CameraCollision = enabled
	return RestreamFull
}

// SetMaterial overrides material slot with m. Returns RestreamNone
// without applying the change if slot is outside the valid range.
func (o *Object) SetMaterial(slot int, m Material) RestreamKind {
	if slot < 0 || slot >= MaterialSlotCount {
		return RestreamNone
	}
	o.Materials[slot] = m
	return RestreamFull
}

// SetPosition teleports the object. Unlike a Move, this is a
// restreamed property with a lighter follow-up: observers get a
// set-position packet plus a stop-move instead of a full
// destroy/create.
func (o *Object) SetPosition(pos Vector3) RestreamKind {
	o.Body.SetPosition(pos)
	return RestreamPosition
}

// SetRotation snaps the object's rotation. See SetPosition.
func (o *Object) SetRotation(rot Vector3) RestreamKind {
	o.Body.SetRotation(rot)
	return RestreamRotation
}
