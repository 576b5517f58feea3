// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

package reliability

import (
	"crypto/sha1"
	"net"
	"time"

	"github.com/luxfi/ids"
)

// defaultMTU is used until a peer's handshake negotiates another.
const defaultMTU = 576

// mtuSafetyMargin accounts for IP/UDP overhead so a datagram never
// fragments at the IP layer.
const mtuSafetyMargin = 60

// resendInterval is how long an unacknowledged reliable message waits
// before being retransmitted.
const resendInterval = 300 * time.Millisecond

// pingInterval is how often a peer's internal ping is sent.
const pingInterval = 5 * time.Second

// pingSampleCount is the rolling window size for ping statistics.
const pingSampleCount = 8

// defaultTimeout is how long a peer may go without any received
// datagram before TimedOut reports it; acknowledgements of reliable
// sends are not taken into account.
const defaultTimeout = 10 * time.Second

// DebugTimeout is the longer timeout used when the server is run with
// -debug, giving a developer time to step through a debugger
// without the peer timing out.
const DebugTimeout = 30 * time.Second

type pendingResend struct {
	data     []byte
	lastSent time.Time
	channel  Channel
}

type splitAssembly struct {
	fragments map[uint32][]byte
	total     uint32
}

// pingWindow is a small ring buffer of round-trip samples.
type pingWindow struct {
	samples [pingSampleCount]time.Duration
	count   int
	next    int
}

func (w *pingWindow) add(d time.Duration) {
	w.samples[w.next] = d
	w.next = (w.next + 1) % pingSampleCount
	if w.count < pingSampleCount {
		w.count++
	}
}

func (w *pingWindow) last() time.Duration {
	if w.count == 0 {
		return 0
	}
	idx := (w.next - 1 + pingSampleCount) % pingSampleCount
	return w.samples[idx]
}

func (w *pingWindow) average() time.Duration {
	if w.count == 0 {
		return 0
	}
	var sum time.Duration
	for i := 0; i < w.count; i++ {
		sum += w.samples[i]
	}
	return sum / time.Duration(w.count)
}

func (w *pingWindow) lowest() time.Duration {
	if w.count == 0 {
		return 0
	}
	min := w.samples[0]
	for i := 1; i < w.count; i++ {
		if w.samples[i] < min {
			min = w.samples[i]
		}
	}
	return min
}

// dupWindow tracks recently seen reliable message indices to suppress
// duplicates without retaining an unbounded set; any index more than
// dupWindowSize below the highest seen is assumed already retired.
type dupWindow struct {
	seen       map[uint32]struct{}
	highest    uint32
	hasHighest bool
}

const dupWindowSize = 2048

func newDupWindow() *dupWindow {
	return &dupWindow{seen: make(map[uint32]struct{})}
}

// seenOrMark reports whether index was already observed; if not, it
// records it and evicts entries that have fallen out of the window.
func (d *dupWindow) seenOrMark(index uint32) bool {
	if d.hasHighest && index+dupWindowSize < d.highest {
		return true // too old to distinguish from a retired duplicate
	}
	if _, ok := d.seen[index]; ok {
		return true
	}
	d.seen[index] = struct{}{}
	if !d.hasHighest || index > d.highest {
		d.highest = index
		d.hasHighest = true
		for idx := range d.seen {
			if idx+dupWindowSize < d.highest {
				delete(d.seen, idx)
			}
		}
	}
	return false
}

// State is a peer's position in the connection lifecycle.
type State uint8

const (
	StateUnconnected State = iota
	StateHandshaking
	StateConnected
	StateDisconnected
)

// Peer tracks all per-connection reliability state: send/receive
// cursors for every channel, the resend queue, split-packet
// reassembly, ping statistics, and connection bookkeeping. The core
// runtime owns one Peer per connected client and drives it only from
// the main loop.
type Peer struct {
	Addr  *net.UDPAddr
	MTU   uint16
	State State

	nextMessageIndex uint32
	nextSendSeq      uint32

	orderSendIndex    [MaxChannels]uint32
	orderExpectedNext [MaxChannels]uint32
	sequenceHighest   [MaxChannels]uint32

	dup *dupWindow

	pendingResends map[uint32]*pendingResend
	splitInbound   map[uint16]*splitAssembly
	nextSplitID    uint16

	orderedPending [MaxChannels]map[uint32]Received

	ping         pingWindow
	lastPingSent time.Time

	lastReceive time.Time
	lastSend    time.Time

	Cookie []byte

	// GUID is a stable per-peer session identity, distinct from the
	// small wire-facing pool id assigned on successful handshake. It
	// is derived from the socket address, so a reconnect from the same
	// address gets the same GUID, and it names the peer in the connect
	// log line. Bans key by IP and the server's peer map by address.
	GUID ids.NodeID
}

// NewPeer returns a Peer for a newly observed address, in the
// unconnected state.
func NewPeer(addr *net.UDPAddr) *Peer {
	now := time.Now()
	p := &Peer{
		Addr:           addr,
		MTU:            defaultMTU,
		State:          StateUnconnected,
		dup:            newDupWindow(),
		pendingResends: make(map[uint32]*pendingResend),
		splitInbound:   make(map[uint16]*splitAssembly),
		lastReceive:    now,
		lastSend:       now,
		GUID:           nodeIDForAddr(addr),
	}
	for i := range p.orderedPending {
		p.orderedPending[i] = make(map[uint32]Received)
	}
	return p
}

// nodeIDForAddr derives a stable ids.NodeID from a socket address. It
// is not a cryptographic identity, only a fixed-size session key that
// is cheap to recompute and stable across a single address's lifetime.
func nodeIDForAddr(addr *net.UDPAddr) ids.NodeID {
	var id ids.NodeID
	if addr == nil {
		return id
	}
	sum := sha1.Sum([]byte(addr.String()))
	copy(id[:], sum[:])
	return id
}

// SafePayloadSize returns the largest application payload that fits in
// one datagram at the peer's negotiated MTU, accounting for datagram,
// message, and (for ordered sends) order-index overhead.
func (p *Peer) SafePayloadSize(mode Mode) int {
	headerSize := 4 + 3 // datagram header + message flags/length
	if mode.IsReliable() {
		headerSize += 3
	}
	if mode.IsSequenced() {
		headerSize += 3
	}
	if mode.IsOrdered() {
		headerSize += 4
	}
	maxSafe := int(p.MTU) - mtuSafetyMargin
	payload := maxSafe - headerSize
	if payload < 0 {
		return 0
	}
	return payload
}

// TimedOut reports whether the peer has gone longer than timeout
// without a received datagram.
func (p *Peer) TimedOut(now time.Time, timeout time.Duration) bool {
	return now.Sub(p.lastReceive) > timeout
}

// Touch records that a datagram was just received from the peer.
func (p *Peer) Touch(now time.Time) { p.lastReceive = now }

// RecordPing adds a round-trip sample from a completed ping exchange.
func (p *Peer) RecordPing(d time.Duration) { p.ping.add(d) }

// PingStats returns the peer's last, average, and lowest observed ping.
func (p *Peer) PingStats() (last, average, lowest time.Duration) {
	return p.ping.last(), p.ping.average(), p.ping.lowest()
}

// DuePing reports whether it is time to send the peer's internal ping.
func (p *Peer) DuePing(now time.Time) bool {
	return now.Sub(p.lastPingSent) >= pingInterval
}

// MarkPingSent records that an internal ping was just sent.
func (p *Peer) MarkPingSent(now time.Time) { p.lastPingSent = now }
