package samp

import (
	"testing"

	"github.com/openmprun/sampd/internal/reliability"
	"github.com/stretchr/testify/require"
)

func baseRequest() HandshakeRequest {
	return HandshakeRequest{
		ConnectionRequest: reliability.ConnectionRequest{
			Name:            "Player_One",
			ProtocolVersion: 4057,
		},
		ExpectedVersion: 4057,
	}
}

func TestEvaluateAcceptsWellFormedRequest(t *testing.T) {
	require.Equal(t, reliability.ConnectSuccess, Evaluate(baseRequest()))
}

func TestEvaluateRejectsBadName(t *testing.T) {
	req := baseRequest()
	req.Name = "x"
	require.Equal(t, reliability.ConnectBadName, Evaluate(req))
}

func TestEvaluateRejectsNameInUse(t *testing.T) {
	req := baseRequest()
	req.NameInUse = func(name string) bool { return name == "Player_One" }
	require.Equal(t, reliability.ConnectBadName, Evaluate(req))
}

func TestEvaluateRejectsVersionMismatch(t *testing.T) {
	req := baseRequest()
	req.ProtocolVersion = 1
	require.Equal(t, reliability.ConnectVersionMismatch, Evaluate(req))
}

func TestEvaluateRejectsModdedClients(t *testing.T) {
	req := baseRequest()
	req.Modded = true
	require.Equal(t, reliability.ConnectBadMod, Evaluate(req))
}

func TestEvaluateRejectsBannedIP(t *testing.T) {
	req := baseRequest()
	req.RemoteIP = "1.2.3.4"
	req.Banned = func(ip string) bool { return ip == "1.2.3.4" }
	require.Equal(t, reliability.ConnectNoPlayerSlot, Evaluate(req))
}

func TestEvaluateRejectsWhenNoCapacity(t *testing.T) {
	req := baseRequest()
	req.HasCapacity = func() bool { return false }
	require.Equal(t, reliability.ConnectNoPlayerSlot, Evaluate(req))
}

func TestEvaluateRejectsPasswordMismatch(t *testing.T) {
	req := baseRequest()
	req.ServerPassword = "secret"
	req.AuthToken = "wrong"
	require.Equal(t, reliability.ConnectBadName, Evaluate(req))
}

func TestEvaluateAcceptsMatchingPassword(t *testing.T) {
	req := baseRequest()
	req.ServerPassword = "secret"
	req.AuthToken = "secret"
	require.Equal(t, reliability.ConnectSuccess, Evaluate(req))
}

func TestValidNameRejectsTooShortAndTooLong(t *testing.T) {
	require.False(t, ValidName("ab"))
	require.False(t, ValidName(string(make([]byte, 25))))
	require.True(t, ValidName("John_Doe"))
}
