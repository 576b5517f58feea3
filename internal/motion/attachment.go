package motion

// AttachmentType names what an object is attached to. AttachObject
// covers both global objects and per-player objects, since the two
// share one id space (see pool.SharedIndexTracker); there is no
// separate player-object variant.
type AttachmentType uint8

const (
	AttachNone AttachmentType = iota
	AttachVehicle
	AttachObject
	AttachPlayer
)

// AttachmentData describes an attachment: an offset and rotation relative
// to whatever ID names under Type, with SyncRotation controlling whether
// the attached entity also follows the parent's rotation.
type AttachmentData struct {
	Type         AttachmentType
	ID           int
	Offset       Vector3
	Rotation     Vector3
	SyncRotation bool
}
