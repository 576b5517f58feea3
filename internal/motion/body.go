package motion

import (
	"math"
	"time"
)

// KeepCurrentRotation is the sentinel a caller passes on a MoveData.TargetRot
// axis to mean "leave this axis at its current value". Legacy clients send
// this as <= -1000 on an axis they don't want to rotate.
const KeepCurrentRotation = -1000.0

// epsilon guards the rotation-ratio division the same way float32 epsilon
// guards it in the reference interpolation.
const epsilon = 1.1920929e-7

// MoveData describes a linear move: the target position/rotation and the
// speed (units/second) position travels at. Rotation always reaches its
// target at the same moment position does, by deriving its own angular
// speed from the ratio of the two distances.
type MoveData struct {
	TargetPos Vector3
	TargetRot Vector3
	Speed     float32
}

// Body is the shared linear-interpolation motion state embedded by both
// world objects and per-player objects.
type Body struct {
	pos, rot Vector3
	moveData MoveData
	rotSpeed float32
	moving   bool
}

// NewBody returns a Body at rest at pos/rot.
func NewBody(pos, rot Vector3) Body {
	return Body{pos: pos, rot: rot, rotSpeed: float32(math.NaN())}
}

func (b *Body) Position() Vector3  { return b.pos }
func (b *Body) Rotation() Vector3  { return b.rot }
func (b *Body) IsMoving() bool     { return b.moving }
func (b *Body) MoveData() MoveData { return b.moveData }

// SetPosition teleports the body and cancels any in-flight move.
func (b *Body) SetPosition(pos Vector3) {
	b.pos = pos
	b.moving = false
}

// SetRotation snaps the body's rotation without affecting an in-flight move.
func (b *Body) SetRotation(rot Vector3) {
	b.rot = rot
}

// Move begins interpolating toward data's target position/rotation. Any axis
// of TargetRot at or below KeepCurrentRotation is replaced with the current
// rotation on that axis before the angular speed is derived, so a caller who
// only wants to translate doesn't also have to repeat the current rotation.
//
// If the rotation doesn't change at all, rotSpeed is left as NaN: Advance
// uses that to skip rotation interpolation entirely rather than dividing by
// a zero rotation distance.
func (b *Body) Move(data MoveData) MoveData {
	if data.TargetRot.X <= KeepCurrentRotation {
		data.TargetRot.X = b.rot.X
	}
	if data.TargetRot.Y <= KeepCurrentRotation {
		data.TargetRot.Y = b.rot.Y
	}
	if data.TargetRot.Z <= KeepCurrentRotation {
		data.TargetRot.Z = b.rot.Z
	}

	rotDistance := Distance(b.rot, data.TargetRot)
	if rotDistance == 0 {
		b.rotSpeed = float32(math.NaN())
	} else {
		b.rotSpeed = rotDistance * data.Speed / Distance(b.pos, data.TargetPos)
	}

	b.moving = true
	b.moveData = data
	return data
}

// Stop halts an in-flight move in place.
func (b *Body) Stop() {
	b.moving = false
}

// Advance steps the body elapsed closer to its move target. It reports
// whether the body just arrived (and stopped moving) this call; the caller
// uses that to know when it can stop advancing this body every tick.
func (b *Body) Advance(elapsed time.Duration) bool {
	if !b.moving {
		return false
	}

	remaining := Distance(b.pos, b.moveData.TargetPos)
	travelled := float32(elapsed.Seconds()) * b.moveData.Speed

	if travelled >= remaining {
		b.moving = false
		b.pos = b.moveData.TargetPos
		if !math.IsNaN(float64(b.rotSpeed)) {
			b.rot = b.moveData.TargetRot
		}
		return true
	}

	ratio := remaining / travelled
	b.pos = b.pos.Add(b.moveData.TargetPos.Sub(b.pos).Scale(1 / ratio))

	if !math.IsNaN(float64(b.rotSpeed)) {
		remainingRot := Distance(b.rot, b.moveData.TargetRot)
		travelledRot := float32(elapsed.Seconds()) * b.rotSpeed
		if travelledRot > epsilon {
			rotRatio := remainingRot / travelledRot
			b.rot = b.rot.Add(b.moveData.TargetRot.Sub(b.rot).Scale(1 / rotRatio))
		}
	}

	return false
}
