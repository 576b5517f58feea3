// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

package reliability

import (
	"net"
	"time"

	"golang.org/x/time/rate"
)

// challengeEntry pairs a per-IP limiter with the last time it was
// consulted, so stale entries can be evicted instead of growing the
// map forever under a churn of distinct source addresses.
type challengeEntry struct {
	limiter *rate.Limiter
	lastHit time.Time
}

// ChallengeLimiter throttles how often a single source IP may start a
// new connection handshake, independent of the per-peer reliability
// state. It exists to blunt a SYN-flood of connection-request RPCs
// from a single address before a Peer (and the pool slot it would
// consume) is ever allocated for it.
type ChallengeLimiter struct {
	perIP map[string]*challengeEntry
	rate  rate.Limit
	burst int
	idle  time.Duration
}

// NewChallengeLimiter returns a limiter allowing up to burst
// connection attempts immediately, refilling at the given rate per
// second thereafter. Entries idle for longer than idle are evicted on
// the next sweep.
func NewChallengeLimiter(perSecond float64, burst int, idle time.Duration) *ChallengeLimiter {
	return &ChallengeLimiter{
		perIP: make(map[string]*challengeEntry),
		rate:  rate.Limit(perSecond),
		burst: burst,
		idle:  idle,
	}
}

// Allow reports whether a new handshake attempt from ip may proceed,
// consuming one token from that IP's bucket if so.
func (c *ChallengeLimiter) Allow(ip net.IP, now time.Time) bool {
	key := ip.String()
	entry, ok := c.perIP[key]
	if !ok {
		entry = &challengeEntry{limiter: rate.NewLimiter(c.rate, c.burst)}
		c.perIP[key] = entry
	}
	entry.lastHit = now
	return entry.limiter.AllowN(now, 1)
}

// Sweep removes limiters that have not been consulted within the
// configured idle window, bounding memory use under a wide spread of
// one-off source addresses.
func (c *ChallengeLimiter) Sweep(now time.Time) {
	for key, entry := range c.perIP {
		if now.Sub(entry.lastHit) > c.idle {
			delete(c.perIP, key)
		}
	}
}

// Tracked returns the number of source IPs currently holding a
// limiter entry, for observability.
func (c *ChallengeLimiter) Tracked() int {
	return len(c.perIP)
}
