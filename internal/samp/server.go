package samp

import (
	"net"
	"time"

	"github.com/openmprun/sampd/internal/config"
	"github.com/openmprun/sampd/internal/dispatch"
	"github.com/openmprun/sampd/internal/logging"
	"github.com/openmprun/sampd/internal/pool"
	"github.com/openmprun/sampd/internal/reliability"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	PlayerLower = 0
	PlayerUpper = 1000

	VehicleLower = 0
	VehicleUpper = 2000
)

// Server owns every piece of mutable game state the tick loop touches:
// the entity pools, the reliability layer's per-peer state, the demux
// tables, and the ban list. Everything here is single-threaded
// cooperative, per the core's concurrency model — the caller's main
// loop is the only goroutine that ever touches a Server.
type Server struct {
	Config *config.Store
	Log    logging.Logger

	Players  *pool.Pool[Player]
	Vehicles *pool.Pool[Vehicle]
	Objects  *ObjectStore

	playerObjects map[int]*PlayerObjectStore

	Demux *Demux
	Bans  *reliability.BanList
	peers map[string]*reliability.Peer

	playersByAddr map[string]int

	Tick    *dispatch.Dispatcher[TickHandler]
	Metrics *reliability.Metrics

	// ConnectLimiter throttles handshake attempts per source IP,
	// ahead of any pool allocation, as SYN-flood protection.
	ConnectLimiter *reliability.ChallengeLimiter
}

// TickHandler is notified once per server tick with the elapsed time
// since the previous tick and the current timestamp.
type TickHandler interface {
	OnTick(elapsed time.Duration, now time.Time)
}

// NewServer wires up an empty server with fresh pools, an empty ban
// list, and the given configuration store. Metrics are registered on a
// private registry by default; call SetMetricsRegisterer before the
// first tick to expose them on a shared one instead.
func NewServer(cfg *config.Store, log logging.Logger) *Server {
	s := &Server{
		Config:        cfg,
		Log:           log,
		Players:       pool.New[Player](PlayerLower, PlayerUpper, true),
		Vehicles:      pool.New[Vehicle](VehicleLower, VehicleUpper, true),
		Objects:       NewObjectStore(),
		playerObjects: make(map[int]*PlayerObjectStore),
		Demux:         NewDemux(),
		Bans:          reliability.NewBanList(),
		peers:         make(map[string]*reliability.Peer),
		playersByAddr: make(map[string]int),
		Tick:          dispatch.New[TickHandler](),
	}
	s.Metrics = reliability.NewUnregisteredMetrics(s.pendingResendTotal)
	s.ConnectLimiter = reliability.NewChallengeLimiter(5, 10, 5*time.Minute)
	return s
}

// SetMetricsRegisterer replaces the server's metrics with ones
// registered on reg, for processes that expose a shared Prometheus
// endpoint. Must be called before the tick loop starts.
func (s *Server) SetMetricsRegisterer(reg prometheus.Registerer) {
	s.Metrics = reliability.NewMetrics(reg, s.pendingResendTotal)
}

func (s *Server) pendingResendTotal() float64 {
	total := 0
	for _, peer := range s.peers {
		total += peer.PendingResendCount()
	}
	return float64(total)
}

// PlayerObjects returns (creating if necessary) the per-player object
// store belonging to player.
func (s *Server) PlayerObjects(player int) *PlayerObjectStore {
	store, ok := s.playerObjects[player]
	if !ok {
		store = NewPlayerObjectStore(s.Objects)
		s.playerObjects[player] = store
	}
	return store
}

// PeerFor returns the reliability peer for addr, creating one if this
// is the first datagram seen from it.
func (s *Server) PeerFor(addr *net.UDPAddr) *reliability.Peer {
	key := addr.String()
	peer, ok := s.peers[key]
	if !ok {
		peer = reliability.NewPeer(addr)
		s.peers[key] = peer
	}
	return peer
}

// Peers returns the live address-to-peer map for bookkeeping passes.
// Callers must not retain it past the current tick.
func (s *Server) Peers() map[string]*reliability.Peer {
	return s.peers
}

// DropPeer forgets a peer entirely, keyed by the same address string
// returned alongside it from Peers.
func (s *Server) DropPeer(addrKey string) {
	delete(s.peers, addrKey)
}

// BindPeer records the player a connected address maps to, so later
// datagrams from that address resolve to their player without walking
// the handshake again.
func (s *Server) BindPeer(addr *net.UDPAddr, id int) {
	s.playersByAddr[addr.String()] = id
}

// PlayerIDFor returns the player id bound to addr, if any.
func (s *Server) PlayerIDFor(addr *net.UDPAddr) (int, bool) {
	id, ok := s.playersByAddr[addr.String()]
	return id, ok
}

// Disconnect releases player, detaching every object attached to them,
// releasing their per-player object pool, forgetting their address
// binding, and removing them from every other connected player's
// streamed-in set.
func (s *Server) Disconnect(playerID int) {
	s.Objects.Engine.DetachFromPlayer(playerID)
	delete(s.playerObjects, playerID)

	if p := s.Players.Get(playerID); p != nil && p.Addr != nil {
		delete(s.playersByAddr, p.Addr.String())
	}

	s.Players.Each(func(id int, p *Player) {
		if id != playerID {
			p.StreamOut(playerID)
		}
	})

	s.Players.Release(playerID, false)
}

// Advance steps every per-tick subsystem forward by elapsed and fires
// OnTick, matching the fixed tick sequence: reliability bookkeeping is
// the caller's responsibility (it owns the socket), this covers motion
// advancement and the tick event only.
func (s *Server) Advance(elapsed time.Duration, now time.Time) {
	s.Objects.Engine.Tick(elapsed, now)

	for _, store := range s.playerObjects {
		store.Engine.Tick(elapsed, now)
	}

	dispatch.All(s.Tick, func(h TickHandler) { h.OnTick(elapsed, now) })
}
