// Command sampd is the process entrypoint for the core game server
// runtime: it owns the UDP socket, drives a fixed tick sequence (drain
// the socket and dispatch what it decodes, reliability bookkeeping,
// advance motion, fire onTick), and wires the configuration store, ban list, and
// player/vehicle/object pools together.
package main

import (
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/openmprun/sampd/internal/config"
	"github.com/openmprun/sampd/internal/logging"
	"github.com/openmprun/sampd/internal/reliability"
	"github.com/openmprun/sampd/internal/samp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the server's TOML configuration file")
	banlistPath := flag.String("banlist", "bans.txt", "path to the persisted ban list")
	listenAddr := flag.String("listen", ":7777", "UDP address to listen on")
	tick := flag.Duration("tick", 5*time.Millisecond, "socket read / tick duration")
	debug := flag.Bool("debug", false, "use the longer debug peer timeout")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics at this address under /metrics")
	flag.Parse()

	zapLog, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zapLog.Sync()
	logger := logging.NewZap(zapLog.Named("sampd"))

	cfg := config.New()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			logger.Error("reading config file", zap.String("path", *configPath), zap.Error(err))
			os.Exit(1)
		}
		parsed, err := config.Parse(data)
		if err != nil {
			logger.Error("parsing config file", zap.String("path", *configPath), zap.Error(err))
			os.Exit(1)
		}
		cfg = parsed
	}

	srv := samp.NewServer(cfg, logger)
	if *metricsAddr != "" {
		srv.SetMetricsRegisterer(prometheus.DefaultRegisterer)
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				logger.Error("metrics server stopped", zap.String("addr", *metricsAddr), zap.Error(err))
			}
		}()
	}

	if bans, err := reliability.LoadBanList(*banlistPath); err == nil {
		srv.Bans = bans
	}

	addr, err := net.ResolveUDPAddr("udp", *listenAddr)
	if err != nil {
		logger.Error("resolving listen address", zap.String("addr", *listenAddr), zap.Error(err))
		os.Exit(1)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		logger.Error("binding UDP socket", zap.String("addr", *listenAddr), zap.Error(err))
		os.Exit(1)
	}
	defer conn.Close()

	timeout := reliability.DebugTimeout
	if !*debug {
		timeout = 10 * time.Second
	}

	logger.Info("sampd listening", zap.String("addr", *listenAddr))
	run(srv, conn, *tick, timeout, logger)
}

// run drives the fixed per-tick sequence in an endless loop: drain the
// socket for up to one tick duration, dispatching each datagram's
// decoded traffic as it is read, then run reliability bookkeeping
// (timeouts, resends, pings), advance every moving object, and fire
// onTick. Dispatch therefore happens before that tick's bookkeeping.
// A closed socket does not end the loop. Elapsed time is measured
// between successive iterations, not against wall clock.
func run(srv *samp.Server, conn *net.UDPConn, tick, timeout time.Duration, logger logging.Logger) {
	buf := make([]byte, 8192)
	last := time.Now()

	for {
		now := time.Now()
		elapsed := now.Sub(last)
		last = now

		drainSocket(srv, conn, buf, tick, logger)
		bookkeeping(srv, conn, timeout, now, logger)
		srv.Advance(elapsed, now)
	}
}

// bookkeeping performs the per-tick reliability housekeeping for every
// connected peer: disconnecting those that have timed out, flushing due
// resends of unacknowledged reliable messages, and sending an internal
// ping on the channel reserved for transport bookkeeping.
func bookkeeping(srv *samp.Server, conn *net.UDPConn, timeout time.Duration, now time.Time, logger logging.Logger) {
	srv.ConnectLimiter.Sweep(now)
	connected := 0

	for addrKey, peer := range srv.Peers() {
		if peer.State != reliability.StateConnected {
			continue
		}
		connected++

		if peer.TimedOut(now, timeout) {
			if id, ok := srv.PlayerIDFor(peer.Addr); ok {
				logger.Info("player timed out", zap.Int("id", id), zap.String("peer", addrKey))
				srv.Disconnect(id)
			}
			srv.DropPeer(addrKey)
			connected--
			continue
		}

		due := peer.DueResends(now)
		for _, datagram := range due {
			if _, err := conn.WriteToUDP(datagram, peer.Addr); err != nil {
				logger.Warn("resend failed", zap.String("peer", addrKey), zap.Error(err))
			}
			srv.Metrics.DatagramsSent.Inc()
		}
		srv.Metrics.Resent.Add(float64(len(due)))

		if peer.DuePing(now) {
			for _, datagram := range peer.Send(now, reliability.ChannelInternal, reliability.Unreliable, nil) {
				if _, err := conn.WriteToUDP(datagram, peer.Addr); err != nil {
					logger.Warn("ping send failed", zap.String("peer", addrKey), zap.Error(err))
				}
				srv.Metrics.DatagramsSent.Inc()
			}
			peer.MarkPingSent(now)
		}

		if last, _, _ := peer.PingStats(); last > 0 {
			srv.Metrics.PingSample.Observe(last.Seconds())
		}
	}

	srv.Metrics.ConnectedPeers.Set(float64(connected))
}

func drainSocket(srv *samp.Server, conn *net.UDPConn, buf []byte, tick time.Duration, logger logging.Logger) {
	deadline := time.Now().Add(tick)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(remaining))

		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return
			}
			logger.Warn("socket read error", zap.Error(err))
			return
		}

		handleDatagram(srv, from, buf[:n], logger)
	}
}

func handleDatagram(srv *samp.Server, from *net.UDPAddr, data []byte, logger logging.Logger) {
	peer := srv.PeerFor(from)
	now := time.Now()
	peer.Touch(now)

	received, err := peer.Receive(now, data)
	if err != nil {
		if errors.Is(err, reliability.ErrBadCRC) {
			srv.Metrics.BadCRC.Inc()
		} else {
			srv.Metrics.Truncated.Inc()
		}
		logger.Debug("dropping malformed datagram", zap.String("peer", from.String()), zap.Error(err))
		return
	}
	srv.Metrics.DatagramsReceived.Inc()

	for _, r := range received {
		if len(r.Payload) == 0 {
			continue
		}
		id := int(r.Payload[0])
		body := r.Payload[1:]

		switch r.Channel {
		case reliability.ChannelSyncRPCs:
			if id == reliability.ConnectionRequestID && peer.State != reliability.StateConnected {
				if !srv.ConnectLimiter.Allow(from.IP, now) {
					logger.Debug("connection attempt rate limited", zap.String("peer", from.String()))
					continue
				}
				acceptConnection(srv, peer, from, body, logger)
				continue
			}
			playerID, ok := srv.PlayerIDFor(from)
			if ok {
				srv.Demux.DispatchRPC(id, playerID, body)
			}
		default:
			playerID, ok := srv.PlayerIDFor(from)
			if ok {
				srv.Demux.DispatchPacket(id, playerID, body)
			}
		}
	}
}

func acceptConnection(srv *samp.Server, peer *reliability.Peer, from *net.UDPAddr, body []byte, logger logging.Logger) {
	req, err := reliability.DecodeConnectionRequest(body)
	if err != nil {
		logger.Debug("malformed connection request", zap.String("peer", from.String()), zap.Error(err))
		return
	}

	outcome := samp.Evaluate(samp.HandshakeRequest{
		ConnectionRequest: req,
		RemoteIP:          from.IP.String(),
		ServerPassword:    srv.Config.GetString("password", ""),
		HasCapacity:       func() bool { return srv.Players.Count() < samp.PlayerUpper-samp.PlayerLower },
		Banned:            func(ip string) bool { return srv.Bans.Banned(from.IP, time.Now()) },
		NameInUse: func(name string) bool {
			inUse := false
			srv.Players.Each(func(id int, p *samp.Player) {
				if p.Name == name {
					inUse = true
				}
			})
			return inUse
		},
	})

	if outcome != reliability.ConnectSuccess {
		logger.Debug("connection rejected", zap.String("peer", from.String()), zap.Uint8("outcome", uint8(outcome)))
		return
	}

	id := srv.Players.Claim(func(id int) *samp.Player {
		p := samp.NewPlayer(id, from, peer)
		p.Name = req.Name
		p.ClientVersion = uint8(req.ProtocolVersion)
		return p
	})
	if id < 0 {
		logger.Debug("no free player slot", zap.String("peer", from.String()))
		return
	}

	peer.State = reliability.StateConnected
	srv.BindPeer(from, id)
	logger.Info("player connected",
		zap.Int("id", id),
		zap.String("name", req.Name),
		zap.Stringer("guid", peer.GUID))
}
