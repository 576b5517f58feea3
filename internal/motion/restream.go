package motion

// RestreamKind describes which network follow-up a property change on
// an object requires.
type RestreamKind uint8

const (
	// RestreamNone means the change needs no network follow-up, for
	// example a rejected out-of-range material slot.
	RestreamNone RestreamKind = iota
	// RestreamFull means every current observer needs a
	// destroy-object followed by a create-object carrying the new
	// state: no lighter delta packet covers the changed property.
	RestreamFull
	// RestreamPosition means observers need a set-position packet
	// plus a stop-move, to cancel any in-flight client interpolation.
	RestreamPosition
	// RestreamRotation is RestreamPosition's rotation counterpart.
	RestreamRotation
)

// RestreamEvent names the observers that must receive a follow-up of
// Kind after a property change on an object. Players is empty and
// meaningless when Kind is RestreamNone.
type RestreamEvent struct {
	Kind    RestreamKind
	Players []int
}
