// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

package reliability

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrTruncated is returned when a datagram ends before a field it
// declared is fully present.
var ErrTruncated = errors.New("reliability: truncated frame")

// maxSplitFragments bounds how many split fragments a single message
// may be reassembled from, guarding against a peer claiming an
// unbounded split count.
const maxSplitFragments = 128

// Message is one encapsulated application payload carried inside a
// datagram, with its reliability and ordering metadata attached.
type Message struct {
	Mode         Mode
	MessageIndex uint32 // set only for reliable modes; used for ack/resend and dup suppression
	OrderIndex   uint32 // set for ordered/sequenced modes
	Channel      Channel
	Split        bool
	SplitCount   uint32
	SplitID      uint16
	SplitIndex   uint32
	Payload      []byte
}

// encodedSize returns the on-wire byte length of m's header plus payload.
func (m *Message) encodedSize() int {
	size := 1 + 2 // flags byte + 16-bit bit-length
	if m.Mode.IsReliable() {
		size += 3
	}
	if m.Mode.IsSequenced() {
		size += 3
	}
	if m.Mode.IsOrdered() {
		size += 4
	}
	if m.Split {
		size += 10
	}
	return size + len(m.Payload)
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

func getUint24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// encode appends m's wire representation to out and returns the result.
func (m *Message) encode(out []byte) []byte {
	flags := byte(m.Mode) << 5
	if m.Split {
		flags |= 0x10
	}
	out = append(out, flags)

	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(m.Payload))*8)
	out = append(out, lenBuf[:]...)

	if m.Mode.IsReliable() {
		var b [3]byte
		putUint24(b[:], m.MessageIndex)
		out = append(out, b[:]...)
	}
	if m.Mode.IsSequenced() {
		var b [3]byte
		putUint24(b[:], m.OrderIndex)
		out = append(out, b[:]...)
	}
	if m.Mode.IsOrdered() {
		var b [3]byte
		putUint24(b[:], m.OrderIndex)
		out = append(out, byte(m.Channel))
		out = append(out, b[:]...)
	}
	if m.Split {
		var sc, si [4]byte
		binary.BigEndian.PutUint32(sc[:], m.SplitCount)
		binary.BigEndian.PutUint32(si[:], m.SplitIndex)
		var sid [2]byte
		binary.BigEndian.PutUint16(sid[:], m.SplitID)
		out = append(out, sc[:]...)
		out = append(out, sid[:]...)
		out = append(out, si[:]...)
	}
	out = append(out, m.Payload...)
	return out
}

// decodeMessage reads one Message starting at data[0], returning the
// message and the number of bytes consumed.
func decodeMessage(data []byte) (*Message, int, error) {
	if len(data) < 3 {
		return nil, 0, ErrTruncated
	}
	flags := data[0]
	m := &Message{
		Mode:  Mode((flags >> 5) & 0x07),
		Split: flags&0x10 != 0,
	}
	lengthBits := binary.BigEndian.Uint16(data[1:3])
	payloadLen := int((lengthBits + 7) / 8)
	off := 3

	if m.Mode.IsReliable() {
		if off+3 > len(data) {
			return nil, 0, ErrTruncated
		}
		m.MessageIndex = getUint24(data[off:])
		off += 3
	}
	if m.Mode.IsSequenced() {
		if off+3 > len(data) {
			return nil, 0, ErrTruncated
		}
		m.OrderIndex = getUint24(data[off:])
		off += 3
	}
	if m.Mode.IsOrdered() {
		if off+4 > len(data) {
			return nil, 0, ErrTruncated
		}
		m.OrderIndex = getUint24(data[off:])
		off += 3
		m.Channel = Channel(data[off])
		off++
	}
	if m.Split {
		if off+10 > len(data) {
			return nil, 0, ErrTruncated
		}
		m.SplitCount = binary.BigEndian.Uint32(data[off:])
		off += 4
		m.SplitID = binary.BigEndian.Uint16(data[off:])
		off += 2
		m.SplitIndex = binary.BigEndian.Uint32(data[off:])
		off += 4
		if m.SplitCount > maxSplitFragments || m.SplitIndex >= m.SplitCount {
			return nil, 0, errors.New("reliability: invalid split metadata")
		}
	}
	if off+payloadLen > len(data) {
		return nil, 0, ErrTruncated
	}
	m.Payload = append([]byte(nil), data[off:off+payloadLen]...)
	off += payloadLen
	return m, off, nil
}
