package reliability

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectionRequestEncodeDecodeRoundTrip(t *testing.T) {
	req := ConnectionRequest{
		ProtocolVersion: 4057,
		Modded:          false,
		Name:            "Player_Name",
		ChallengeReply:  0xDEADBEEF,
		AuthToken:       "abc123",
		VersionString:   "0.3.7",
	}
	encoded := EncodeConnectionRequest(req)
	got, err := DecodeConnectionRequest(encoded)
	require.NoError(t, err)
	require.Equal(t, req, got)
}
