package samp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	calls  *[]string
	name   string
	result bool
}

func (h recordingHandler) HandleIncoming(id, peer int, payload []byte) bool {
	*h.calls = append(*h.calls, h.name)
	return h.result
}

func TestDemuxDispatchesGlobalSinkBeforeIDSpecificSink(t *testing.T) {
	d := NewDemux()
	var calls []string

	d.NetworkIn.Add(recordingHandler{calls: &calls, name: "global", result: true}, 0)
	d.PacketIn.Add(3, recordingHandler{calls: &calls, name: "specific", result: true}, 0)

	ok := d.DispatchPacket(3, 1, []byte("x"))
	require.True(t, ok)
	require.Equal(t, []string{"global", "specific"}, calls)
}

func TestDemuxGlobalSinkVetoStopsIDSpecificDispatch(t *testing.T) {
	d := NewDemux()
	var calls []string

	d.NetworkIn.Add(recordingHandler{calls: &calls, name: "global", result: false}, 0)
	d.PacketIn.Add(3, recordingHandler{calls: &calls, name: "specific", result: true}, 0)

	ok := d.DispatchPacket(3, 1, []byte("x"))
	require.False(t, ok)
	require.Equal(t, []string{"global"}, calls)
}

func TestDemuxUnregisteredIDIsANoOp(t *testing.T) {
	d := NewDemux()
	require.True(t, d.DispatchPacket(200, 1, []byte("x")))
	require.True(t, d.DispatchRPC(200, 1, []byte("x")))
}
