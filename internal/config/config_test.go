package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `
server_name = "Test Server"
password = "hunter2"
components = ["chat", "objects", "vehicles"]

[network]
stream_radius = 250.5
stream_rate = 500

[artwork]
enabled = false

[aliases]
rcon_password = "admin_password"
`

func TestParseFlattensNestedTables(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)

	require.Equal(t, "Test Server", s.GetString("server_name", ""))
	require.Equal(t, 250.5, s.GetFloat("network.stream_radius", 0))
	require.Equal(t, 500, s.GetInt("network.stream_rate", 0))
	require.False(t, s.GetBool("artwork.enabled", true))
}

func TestParseFillsInDefaultsNotPresentInFile(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Equal(t, "San Andreas", s.GetString("map_name", ""))
}

func TestComponentListPreservesOrder(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Equal(t, []string{"chat", "objects", "vehicles"}, s.ComponentList())
}

func TestGetAliasResolvesToCanonical(t *testing.T) {
	s, err := Parse([]byte(sample))
	require.NoError(t, err)
	s.Set("admin_password", "letmein")

	v, ok := s.Get("rcon_password")
	require.True(t, ok)
	require.Equal(t, "letmein", v)

	canon, deprecated := s.GetAlias("rcon_password")
	require.True(t, deprecated)
	require.Equal(t, "admin_password", canon)
}

func TestGetAliasOnNonAliasKeyIsIdentity(t *testing.T) {
	s := New()
	canon, deprecated := s.GetAlias("server_name")
	require.False(t, deprecated)
	require.Equal(t, "server_name", canon)
}

func TestEnumerateVisitsKeysInSortedOrder(t *testing.T) {
	s := New()
	s.Set("zzz", "last")
	s.Set("aaa", "first")

	var keys []string
	s.Enumerate(func(key, value string) {
		keys = append(keys, key)
	})
	require.Equal(t, keys[0], "aaa")
	require.Equal(t, keys[len(keys)-1], "zzz")
}

func TestGetIntFallsBackOnMissingOrBadValue(t *testing.T) {
	s := New()
	require.Equal(t, 42, s.GetInt("missing", 42))

	s.Set("bad", "not-a-number")
	require.Equal(t, 7, s.GetInt("bad", 7))
}
