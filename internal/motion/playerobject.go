package motion

import "time"

// PlayerObject is an object scoped to a single player — it is created and
// destroyed with that player, so it needs only one delayed-processing
// deadline rather than one per observer.
type PlayerObject struct {
	Body
	ID     int
	Player int

	Attachment AttachmentData

	Model           int
	DrawDistance    float32
	CameraCollision bool
	Materials       [MaterialSlotCount]Material

	delayed      bool
	delayedUntil time.Time
}

// NewPlayerObject creates a per-player object at rest at pos/rot, with
// camera collision enabled by default.
func NewPlayerObject(id, player int, pos, rot Vector3) *PlayerObject {
	return &PlayerObject{
		Body:            NewBody(pos, rot),
		ID:              id,
		Player:          player,
		CameraCollision: true,
	}
}

// StreamedFor returns the single player a per-player object is ever
// visible to: its owner. It exists so restream audiences can be
// resolved the same way for both Object and PlayerObject.
func (p *PlayerObject) StreamedFor() []int {
	return []int{p.Player}
}

// AttachToPlayer attaches this object to player at offset/rotation.
// Attachment is a restreamed property.
func (p *PlayerObject) AttachToPlayer(player int, offset, rotation Vector3) RestreamKind {
	p.Attachment = AttachmentData{Type: AttachPlayer, ID: player, Offset: offset, Rotation: rotation, SyncRotation: true}
	return RestreamFull
}

// AttachToObject attaches this object to another object (global or
// per-player) identified by target. Callers must use
// PlayerEngine.AttachToObject instead of this method directly so the
// self-attach and cycle checks run first.
func (p *PlayerObject) AttachToObject(target int, offset, rotation Vector3) RestreamKind {
	p.Attachment = AttachmentData{Type: AttachObject, ID: target, Offset: offset, Rotation: rotation, SyncRotation: true}
	return RestreamFull
}

// AttachToVehicle attaches this object to vehicle at offset/rotation.
func (p *PlayerObject) AttachToVehicle(vehicle int, offset, rotation Vector3) RestreamKind {
	p.Attachment = AttachmentData{Type: AttachVehicle, ID: vehicle, Offset: offset, Rotation: rotation, SyncRotation: true}
	return RestreamFull
}

func (p *PlayerObject) ResetAttachment() RestreamKind {
	p.Attachment = AttachmentData{Type: AttachNone}
	return RestreamFull
}

// SetModel changes this object's model, a restreamed property.
func (p *PlayerObject) SetModel(model int) RestreamKind {
	p.Model = model
	return RestreamFull
}

// SetDrawDistance changes this object's draw distance, a restreamed
// property.
func (p *PlayerObject) SetDrawDistance(distance float32) RestreamKind {
	p.DrawDistance = distance
	return RestreamFull
}

// SetCameraCollision toggles whether the game camera collides with
// this object, a restreamed property.
func (p *PlayerObject) SetCameraCollision(enabled bool) RestreamKind {
	p.CameraCollision = enabled
	return RestreamFull
}

// SetMaterial overrides material slot with m. Returns RestreamNone
// without applying the change if slot is outside the valid range.
func (p *PlayerObject) SetMaterial(slot int, m Material) RestreamKind {
	if slot < 0 || slot >= MaterialSlotCount {
		return RestreamNone
	}
	p.Materials[slot] = m
	return RestreamFull
}

// SetPosition teleports the object. See Object.SetPosition.
func (p *PlayerObject) SetPosition(pos Vector3) RestreamKind {
	p.Body.SetPosition(pos)
	return RestreamPosition
}

// SetRotation snaps the object's rotation. See Object.SetPosition.
func (p *PlayerObject) SetRotation(rot Vector3) RestreamKind {
	p.Body.SetRotation(rot)
	return RestreamRotation
}

// DelayProcessing withholds this object's move/attach state from its owner
// until StreamInDelay has passed, called when the object is first created
// on the client.
func (p *PlayerObject) DelayProcessing(now time.Time) {
	p.delayed = true
	p.delayedUntil = now.Add(StreamInDelay)
}

func (p *PlayerObject) HasDelayedProcessing() bool { return p.delayed }

// Ready reports whether the delayed-processing deadline has elapsed, and if
// so, clears it.
func (p *PlayerObject) Ready(now time.Time) bool {
	if !p.delayed || now.Before(p.delayedUntil) {
		return false
	}
	p.delayed = false
	return true
}
