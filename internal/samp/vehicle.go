package samp

const VehiclePassengerSlots = 4

// InvalidVehicleID is the wire sentinel meaning "no vehicle" where the
// protocol otherwise expects a 16-bit vehicle id.
const InvalidVehicleID = 0xFFFF

// Vehicle is a spawned vehicle's synchronization state.
type Vehicle struct {
	ID int

	Position Vector3
	Rotation Quaternion
	Model    int

	// Passengers maps seat index (0 = driver) to occupying player id;
	// an absent entry means the seat is empty.
	Passengers map[int]int

	Health float32
	Colour [2]int
}

func NewVehicle(id, model int, pos Vector3, rot Quaternion) *Vehicle {
	return &Vehicle{
		ID:         id,
		Model:      model,
		Position:   pos,
		Rotation:   rot,
		Passengers: make(map[int]int),
		Health:     1000,
	}
}

// Driver returns the occupant of seat 0, or -1 if the vehicle has none.
func (v *Vehicle) Driver() int {
	if p, ok := v.Passengers[0]; ok {
		return p
	}
	return -1
}

// Empty reports whether the vehicle currently has no occupants.
func (v *Vehicle) Empty() bool { return len(v.Passengers) == 0 }
