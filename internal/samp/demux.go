package samp

import "github.com/openmprun/sampd/internal/dispatch"

// MaxDemuxID is the id-space size for both the packet and RPC demux
// tables: the first byte of every inbound payload.
const MaxDemuxID = 256

// Incoming is delivered a decoded packet or RPC payload. A handler
// returns false to veto further processing of this payload (it is
// dropped silently, never as an error); true lets dispatch continue to
// the next handler.
type Incoming interface {
	HandleIncoming(id int, peer int, payload []byte) bool
}

// Outgoing is the symmetric veto hook for traffic the core is about to
// send to a peer.
type Outgoing interface {
	HandleOutgoing(id int, peer int, payload []byte) bool
}

// Demux fans inbound/outbound packets and RPCs out by their first-byte
// id, plus one unindexed sink that sees every packet regardless of id.
type Demux struct {
	PacketIn  *dispatch.Indexed[Incoming]
	RPCIn     *dispatch.Indexed[Incoming]
	PacketOut *dispatch.Indexed[Outgoing]
	RPCOut    *dispatch.Indexed[Outgoing]

	NetworkIn *dispatch.Dispatcher[Incoming]
}

func NewDemux() *Demux {
	return &Demux{
		PacketIn:  dispatch.NewIndexed[Incoming](MaxDemuxID),
		RPCIn:     dispatch.NewIndexed[Incoming](MaxDemuxID),
		PacketOut: dispatch.NewIndexed[Outgoing](MaxDemuxID),
		RPCOut:    dispatch.NewIndexed[Outgoing](MaxDemuxID),
		NetworkIn: dispatch.New[Incoming](),
	}
}

// DispatchPacket delivers a decoded packet first to the global
// NetworkIn sink, then to the id-specific sink, short-circuiting on the
// first handler (of either stage) that returns false.
func (d *Demux) DispatchPacket(id, peer int, payload []byte) bool {
	if !dispatch.StopAtFalse(d.NetworkIn, func(h Incoming) bool {
		return h.HandleIncoming(id, peer, payload)
	}) {
		return false
	}
	sink := d.PacketIn.At(id)
	if sink == nil {
		return true
	}
	return dispatch.StopAtFalse(sink, func(h Incoming) bool {
		return h.HandleIncoming(id, peer, payload)
	})
}

// DispatchRPC delivers a decoded RPC through the same global NetworkIn
// sink as DispatchPacket, then to the RPC-id-specific sink.
func (d *Demux) DispatchRPC(id, peer int, payload []byte) bool {
	if !dispatch.StopAtFalse(d.NetworkIn, func(h Incoming) bool {
		return h.HandleIncoming(id, peer, payload)
	}) {
		return false
	}
	sink := d.RPCIn.At(id)
	if sink == nil {
		return true
	}
	return dispatch.StopAtFalse(sink, func(h Incoming) bool {
		return h.HandleIncoming(id, peer, payload)
	})
}
