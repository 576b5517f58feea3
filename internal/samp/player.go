package samp

import (
	"net"
	"time"

	"github.com/openmprun/sampd/internal/motion"
	"github.com/openmprun/sampd/internal/reliability"
)

const WeaponSlotCount = 13

// WeaponSlot is one of a player's 13 weapon inventory slots.
type WeaponSlot struct {
	Weapon uint8
	Ammo   uint16
}

// KeyState is the last key/analog input snapshot a player's client
// reported.
type KeyState struct {
	Keys      uint32
	UpDown    int16
	LeftRight int16
}

// AimData is the camera and aiming state used to reconstruct where a
// player is looking and shooting from on other clients.
type AimData struct {
	CameraPosition Vector3
	CameraFront    Vector3
	AspectRatio    float32
	ZoomScale      float32
	WeaponState    uint8
	CamMode        uint8
}

// BulletData describes the most recent weapon-fire sync from a player.
type BulletData struct {
	Origin      Vector3
	HitPosition Vector3
	HitType     uint8
	HitID       uint16
	Weapon      uint8
}

// Vector3 mirrors motion.Vector3: player position/rotation, camera
// vectors, and bullet geometry all live in the same Euler/position
// space the motion engine advances objects in.
type Vector3 = motion.Vector3

// Player is one connected client's full synchronization state.
type Player struct {
	ID int

	Position Vector3
	Rotation Quaternion

	VirtualWorld int
	Interior     int
	Health       float32
	Armour       float32
	Team         uint8
	Skin         int

	Colour uint32
	Name   string

	SerialToken   uint32
	ClientVersion uint8

	Weapons [WeaponSlotCount]WeaponSlot
	Keys    KeyState
	Aim     AimData
	Bullet  BulletData

	StreamedIn map[int]struct{}

	State      PlayerState
	Spectating int // player id being spectated, -1 if none

	Addr *net.UDPAddr
	Peer *reliability.Peer

	Objects *motion.PlayerEngine

	ConnectedAt time.Time
}

// Quaternion is a unit quaternion in the game's left-handed rotation
// basis (see the compressed-quaternion wire encoding).
type Quaternion struct {
	W, X, Y, Z float32
}

// NewPlayer returns a freshly connected player at rest with no
// streamed-in peers and an empty per-player object set.
func NewPlayer(id int, addr *net.UDPAddr, peer *reliability.Peer) *Player {
	return &Player{
		ID:         id,
		Rotation:   Quaternion{W: 1},
		StreamedIn: make(map[int]struct{}),
		State:      StateNone,
		Spectating: -1,
		Addr:       addr,
		Peer:       peer,
		Objects:    motion.NewPlayerEngine(),
	}
}

func (p *Player) IsStreamedInFor(other int) bool {
	_, ok := p.StreamedIn[other]
	return ok
}

func (p *Player) StreamIn(other int)  { p.StreamedIn[other] = struct{}{} }
func (p *Player) StreamOut(other int) { delete(p.StreamedIn, other) }
