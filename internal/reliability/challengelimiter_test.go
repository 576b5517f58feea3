package reliability

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChallengeLimiterAllowsUpToBurstThenBlocks(t *testing.T) {
	limiter := NewChallengeLimiter(1, 3, time.Minute)
	ip := net.ParseIP("203.0.113.5")
	now := time.Now()

	for i := 0; i < 3; i++ {
		require.True(t, limiter.Allow(ip, now), "attempt %d should be within burst", i)
	}
	require.False(t, limiter.Allow(ip, now), "fourth immediate attempt should be limited")
}

func TestChallengeLimiterTracksDistinctIPsIndependently(t *testing.T) {
	limiter := NewChallengeLimiter(1, 1, time.Minute)
	now := time.Now()

	require.True(t, limiter.Allow(net.ParseIP("203.0.113.5"), now))
	require.True(t, limiter.Allow(net.ParseIP("203.0.113.6"), now))
	require.False(t, limiter.Allow(net.ParseIP("203.0.113.5"), now))
	require.Equal(t, 2, limiter.Tracked())
}

func TestChallengeLimiterSweepEvictsIdleEntries(t *testing.T) {
	limiter := NewChallengeLimiter(1, 1, time.Minute)
	now := time.Now()

	limiter.Allow(net.ParseIP("203.0.113.5"), now)
	require.Equal(t, 1, limiter.Tracked())

	limiter.Sweep(now.Add(2 * time.Minute))
	require.Equal(t, 0, limiter.Tracked())
}

func TestChallengeLimiterRefillsOverTime(t *testing.T) {
	limiter := NewChallengeLimiter(10, 1, time.Minute)
	ip := net.ParseIP("203.0.113.5")
	now := time.Now()

	require.True(t, limiter.Allow(ip, now))
	require.False(t, limiter.Allow(ip, now))
	require.True(t, limiter.Allow(ip, now.Add(time.Second)))
}
