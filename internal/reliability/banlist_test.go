package reliability

import (
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBanEntryWildcardMatching(t *testing.T) {
	entry, err := NewBanEntry("192.168.*.*", 0, "test")
	require.NoError(t, err)

	require.True(t, entry.matches(net.ParseIP("192.168.1.5")))
	require.True(t, entry.matches(net.ParseIP("192.168.99.1")))
	require.False(t, entry.matches(net.ParseIP("192.169.1.5")))
}

func TestBanEntryExactMatch(t *testing.T) {
	entry, err := NewBanEntry("10.0.0.1", 0, "exact")
	require.NoError(t, err)
	require.True(t, entry.matches(net.ParseIP("10.0.0.1")))
	require.False(t, entry.matches(net.ParseIP("10.0.0.2")))
}

func TestBanEntryTTLExpiry(t *testing.T) {
	entry, err := NewBanEntry("1.2.3.4", time.Minute, "temp")
	require.NoError(t, err)
	require.False(t, entry.Expired(time.Now()))
	require.True(t, entry.Expired(time.Now().Add(2*time.Minute)))
}

func TestBanListBannedAndRemove(t *testing.T) {
	list := NewBanList()
	entry, err := NewBanEntry("5.5.5.5", 0, "spammer")
	require.NoError(t, err)
	list.Add(entry)

	require.True(t, list.Banned(net.ParseIP("5.5.5.5"), time.Now()))
	require.False(t, list.Banned(net.ParseIP("5.5.5.6"), time.Now()))

	require.True(t, list.Remove(entry.ID))
	require.False(t, list.Banned(net.ParseIP("5.5.5.5"), time.Now()))
}

func TestBanListPruneRemovesExpired(t *testing.T) {
	list := NewBanList()
	expired, _ := NewBanEntry("1.1.1.1", time.Millisecond, "short")
	permanent, _ := NewBanEntry("2.2.2.2", 0, "forever")
	list.Add(expired)
	list.Add(permanent)

	list.Prune(time.Now().Add(time.Second))
	require.False(t, list.Banned(net.ParseIP("1.1.1.1"), time.Now()))
	require.True(t, list.Banned(net.ParseIP("2.2.2.2"), time.Now()))
}

func TestBanListSaveAndLoadRoundTrip(t *testing.T) {
	list := NewBanList()
	permanent, _ := NewBanEntry("8.8.8.*", 0, "noisy subnet")
	temp, _ := NewBanEntry("9.9.9.9", time.Hour, "flooder")
	list.Add(permanent)
	list.Add(temp)

	path := t.TempDir() + "/bans.txt"
	require.NoError(t, list.Save(path))
	defer os.Remove(path)

	loaded, err := LoadBanList(path)
	require.NoError(t, err)
	require.True(t, loaded.Banned(net.ParseIP("8.8.8.1"), time.Now()))
	require.True(t, loaded.Banned(net.ParseIP("9.9.9.9"), time.Now()))
	require.False(t, loaded.Banned(net.ParseIP("9.9.9.8"), time.Now()))
}
