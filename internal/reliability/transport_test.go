package reliability

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestPeer() *Peer {
	return NewPeer(&net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 7777})
}

func TestNewPeerDerivesStableGUIDFromAddress(t *testing.T) {
	addr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 7777}
	a := NewPeer(addr)
	b := NewPeer(addr)
	require.Equal(t, a.GUID, b.GUID)
	require.NotZero(t, a.GUID)

	other := NewPeer(&net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 7778})
	require.NotEqual(t, a.GUID, other.GUID)
}

func TestSendAndReceiveUnreliable(t *testing.T) {
	sender := newTestPeer()
	receiver := newTestPeer()
	now := time.Now()

	datagrams := sender.Send(now, ChannelUnordered, Unreliable, []byte("hi there"))
	require.Len(t, datagrams, 1)

	got, err := receiver.Receive(now, datagrams[0])
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, []byte("hi there"), got[0].Payload)
}

func TestReliableMessageTracksResendUntilAcknowledged(t *testing.T) {
	sender := newTestPeer()
	now := time.Now()

	datagrams := sender.Send(now, ChannelReliable, Reliable, []byte("data"))
	require.Len(t, datagrams, 1)
	require.Len(t, sender.pendingResends, 1)

	require.Empty(t, sender.DueResends(now))
	later := now.Add(resendInterval + time.Millisecond)
	require.Len(t, sender.DueResends(later), 1)

	for idx := range sender.pendingResends {
		sender.Acknowledge(idx)
	}
	require.Empty(t, sender.pendingResends)
}

func TestDuplicateReliableMessageIsSuppressed(t *testing.T) {
	sender := newTestPeer()
	receiver := newTestPeer()
	now := time.Now()

	datagrams := sender.Send(now, ChannelReliable, Reliable, []byte("once"))
	_, err := receiver.Receive(now, datagrams[0])
	require.NoError(t, err)

	got, err := receiver.Receive(now, datagrams[0])
	require.NoError(t, err)
	require.Empty(t, got, "the duplicate must be suppressed")
}

func TestReliableOrderedDeliversInOrderDespiteReordering(t *testing.T) {
	sender := newTestPeer()
	receiver := newTestPeer()
	now := time.Now()

	var datagrams [][]byte
	for _, payload := range []string{"first", "second", "third"} {
		d := sender.Send(now, ChannelSyncPackets, ReliableOrdered, []byte(payload))
		datagrams = append(datagrams, d...)
	}
	require.Len(t, datagrams, 3)

	// Deliver out of order: third, first, second.
	got1, err := receiver.Receive(now, datagrams[2])
	require.NoError(t, err)
	require.Empty(t, got1, "third must be held back until first and second arrive")

	got2, err := receiver.Receive(now, datagrams[0])
	require.NoError(t, err)
	require.Len(t, got2, 1)
	require.Equal(t, []byte("first"), got2[0].Payload)

	got3, err := receiver.Receive(now, datagrams[1])
	require.NoError(t, err)
	require.Len(t, got3, 2, "second releases itself and the buffered third")
	require.Equal(t, []byte("second"), got3[0].Payload)
	require.Equal(t, []byte("third"), got3[1].Payload)
}

func TestUnreliableSequencedDropsStaleMessages(t *testing.T) {
	sender := newTestPeer()
	receiver := newTestPeer()
	now := time.Now()

	// older is sent first and gets the lower order index; newer is
	// sent second. Delivering newer before older must cause older to
	// be dropped on arrival, since a newer message already arrived.
	older := sender.Send(now, ChannelUnordered, UnreliableSequenced, []byte("older"))
	newer := sender.Send(now, ChannelUnordered, UnreliableSequenced, []byte("newer"))

	got1, err := receiver.Receive(now, newer[0])
	require.NoError(t, err)
	require.Len(t, got1, 1)

	got2, err := receiver.Receive(now, older[0])
	require.NoError(t, err)
	require.Empty(t, got2)
}

func TestSendSplitsPayloadLargerThanSafeSize(t *testing.T) {
	sender := newTestPeer()
	receiver := newTestPeer()
	now := time.Now()
	sender.MTU = 100 // force a small safe payload size

	payload := make([]byte, 400)
	for i := range payload {
		payload[i] = byte(i)
	}
	datagrams := sender.Send(now, ChannelDownloads, Reliable, payload)
	require.Greater(t, len(datagrams), 1)

	var reassembled []byte
	for _, d := range datagrams {
		got, err := receiver.Receive(now, d)
		require.NoError(t, err)
		for _, r := range got {
			reassembled = append(reassembled, r.Payload...)
		}
	}
	require.Equal(t, payload, reassembled)
}

func TestPingWindowTracksLastAverageLowest(t *testing.T) {
	p := newTestPeer()
	p.RecordPing(100 * time.Millisecond)
	p.RecordPing(50 * time.Millisecond)
	p.RecordPing(200 * time.Millisecond)

	last, avg, lowest := p.PingStats()
	require.Equal(t, 200*time.Millisecond, last)
	require.Equal(t, 50*time.Millisecond, lowest)
	require.Equal(t, (100+50+200)*time.Millisecond/3, avg)
}

func TestTimedOutReportsAfterTimeout(t *testing.T) {
	p := newTestPeer()
	now := time.Now()
	p.Touch(now)
	require.False(t, p.TimedOut(now.Add(5*time.Second), defaultTimeout))
	require.True(t, p.TimedOut(now.Add(11*time.Second), defaultTimeout))
}
