// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

package reliability

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/pkg/errors"
)

// datagramFlag marks a UDP payload as a data datagram (as opposed to
// an out-of-band handshake/ping packet, which is dispatched before
// reaching this layer).
const datagramFlag = 0x80

// ErrBadCRC is returned by DecodeDatagram when the trailing checksum
// does not match the frame contents; the caller must drop the
// datagram silently and count it, per the protocol's corruption
// handling.
var ErrBadCRC = errors.New("reliability: bad datagram checksum")

// EncodeDatagram serializes a sequence number and a batch of messages
// into one on-wire datagram, with a trailing CRC32 over everything
// before it.
func EncodeDatagram(seq uint32, messages []*Message) []byte {
	out := make([]byte, 0, 4)
	out = append(out, datagramFlag)
	var seqBuf [3]byte
	putUint24(seqBuf[:], seq)
	out = append(out, seqBuf[:]...)
	for _, m := range messages {
		out = m.encode(out)
	}
	sum := crc32.ChecksumIEEE(out)
	var sumBuf [4]byte
	binary.BigEndian.PutUint32(sumBuf[:], sum)
	return append(out, sumBuf[:]...)
}

// DecodeDatagram parses a datagram produced by EncodeDatagram. It
// verifies the CRC before decoding any message.
func DecodeDatagram(data []byte) (seq uint32, messages []*Message, err error) {
	if len(data) < 4+4 {
		return 0, nil, ErrTruncated
	}
	if data[0]&datagramFlag == 0 {
		return 0, nil, errors.New("reliability: not a data datagram")
	}
	body, trailer := data[:len(data)-4], data[len(data)-4:]
	want := binary.BigEndian.Uint32(trailer)
	got := crc32.ChecksumIEEE(body)
	if want != got {
		return 0, nil, ErrBadCRC
	}

	seq = getUint24(body[1:4])
	off := 4
	for off < len(body) {
		m, n, derr := decodeMessage(body[off:])
		if derr != nil {
			return 0, nil, derr
		}
		messages = append(messages, m)
		off += n
	}
	return seq, messages, nil
}
