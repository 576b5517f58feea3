package reliability

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDatagramEncodeDecodeRoundTrip(t *testing.T) {
	messages := []*Message{
		{Mode: Unreliable, Payload: []byte("a")},
		{Mode: Reliable, MessageIndex: 1, Payload: []byte("b")},
	}
	datagram := EncodeDatagram(123, messages)
	seq, got, err := DecodeDatagram(datagram)
	require.NoError(t, err)
	require.EqualValues(t, 123, seq)
	require.Len(t, got, 2)
	require.Equal(t, []byte("a"), got[0].Payload)
	require.Equal(t, []byte("b"), got[1].Payload)
}

func TestDecodeDatagramRejectsBadCRC(t *testing.T) {
	datagram := EncodeDatagram(1, []*Message{{Mode: Unreliable, Payload: []byte("x")}})
	datagram[len(datagram)-1] ^= 0xFF // corrupt the checksum
	_, _, err := DecodeDatagram(datagram)
	require.ErrorIs(t, err, ErrBadCRC)
}

func TestDecodeDatagramRejectsTooShort(t *testing.T) {
	_, _, err := DecodeDatagram([]byte{0x80, 0x01})
	require.ErrorIs(t, err, ErrTruncated)
}

func TestDecodeDatagramRejectsMissingDataFlag(t *testing.T) {
	datagram := EncodeDatagram(1, []*Message{{Mode: Unreliable, Payload: []byte("x")}})
	datagram[0] = 0x00
	_, _, err := DecodeDatagram(datagram)
	require.Error(t, err)
}
