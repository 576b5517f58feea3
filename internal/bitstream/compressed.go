// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

package bitstream

import (
	"encoding/binary"
	"math"
)

// WriteCompressedU32 writes an unsigned integer using a run-length
// scheme over its bytes: while the next highest byte is all zero, emit
// a '1' bit; on the first byte that is not all zero, emit a '0' bit
// followed by the remaining bytes, with the final byte further
// compressed to a nibble when its high nibble is zero. Values that fit
// in a small number of significant bytes (the common case for
// coordinates, ids, and small counters) end up far shorter than 32
// bits on the wire.
func (s *Stream) WriteCompressedU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	// Walks from the highest byte to the lowest; on a little-endian
	// in-memory representation that is index 3 down to 0.
	writeCompressedBytes(s, b[:], 0x00)
}

// WriteCompressedI32 writes a signed integer; the match byte is 0xFF so
// that small negative values (all high bytes 0xFF) compress the same
// way small positive values do, with 0xF0 as the half-byte sentinel.
func (s *Stream) WriteCompressedI32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	writeCompressedBytes(s, b[:], 0xFF)
}

func writeCompressedBytes(s *Stream, leBytes []byte, matchByte byte) {
	n := len(leBytes)
	current := n - 1
	for current > 0 {
		if leBytes[current] == matchByte {
			s.WriteBit(true)
			current--
			continue
		}
		s.WriteBit(false)
		// Remaining bytes, in their natural little-endian index order
		// (byte 0 first).
		s.WriteBitsRight(leBytes[:current+1], (current+1)*8)
		return
	}
	last := leBytes[0]
	if last&0xF0 == (matchByte & 0xF0) {
		s.WriteBit(true)
		s.WriteBitsRight([]byte{last & 0x0F}, 4)
	} else {
		s.WriteBit(false)
		s.WriteBitsRight([]byte{last}, 8)
	}
}

// ReadCompressedU32 reads a value written by WriteCompressedU32.
func (s *Stream) ReadCompressedU32() (uint32, error) {
	v, err := readCompressedBytes(s, 4, 0x00)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(v), nil
}

// ReadCompressedI32 reads a value written by WriteCompressedI32.
func (s *Stream) ReadCompressedI32() (int32, error) {
	v, err := readCompressedBytes(s, 4, 0xFF)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(v)), nil
}

func readCompressedBytes(s *Stream, size int, matchByte byte) ([]byte, error) {
	le := make([]byte, size)
	current := size - 1
	for current > 0 {
		bit, err := s.ReadBit()
		if err != nil {
			return nil, err
		}
		if bit {
			le[current] = matchByte
			current--
			continue
		}
		got, err := s.ReadBitsRight((current + 1) * 8)
		if err != nil {
			return nil, err
		}
		copy(le[:current+1], got)
		return le, nil
	}
	bit, err := s.ReadBit()
	if err != nil {
		return nil, err
	}
	if bit {
		nibble, err := s.ReadBitsRight(4)
		if err != nil {
			return nil, err
		}
		b := nibble[0] & 0x0F
		if matchByte == 0xFF {
			b |= 0xF0
		}
		le[0] = b
	} else {
		full, err := s.ReadBitsRight(8)
		if err != nil {
			return nil, err
		}
		le[0] = full[0]
	}
	return le, nil
}

// WriteCompressedU16 writes a 16-bit unsigned integer using the same
// compressed scheme as WriteCompressedU32, sized to 2 bytes — used for
// the Huffman bit-length prefix.
func (s *Stream) WriteCompressedU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	writeCompressedBytes(s, b[:], 0x00)
}

// ReadCompressedU16 reads a value written by WriteCompressedU16.
func (s *Stream) ReadCompressedU16() (uint16, error) {
	v, err := readCompressedBytes(s, 2, 0x00)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(v), nil
}

// WriteCompressedFloat writes a float clamped to [-1, +1], quantized to
// an unsigned 16-bit integer via (x+1)*32767.5 and written uncompressed.
func (s *Stream) WriteCompressedFloat(v float32) {
	if v > 1.0 {
		v = 1.0
	}
	if v < -1.0 {
		v = -1.0
	}
	u := uint16((v + 1.0) * 32767.5)
	s.WriteU16(u)
}

// ReadCompressedFloat reads a value written by WriteCompressedFloat.
func (s *Stream) ReadCompressedFloat() (float32, error) {
	u, err := s.ReadU16()
	if err != nil {
		return 0, err
	}
	return float32(u)/32767.5 - 1.0, nil
}

// WriteNormVector writes a normalized 3-vector: one sign bit for x, then
// for y and z a zero-test bit and, if nonzero, the compressed float.
func (s *Stream) WriteNormVector(x, y, z float32) {
	if x > 1.0 {
		x = 1.0
	}
	if y > 1.0 {
		y = 1.0
	}
	if z > 1.0 {
		z = 1.0
	}
	if x < -1.0 {
		x = -1.0
	}
	if y < -1.0 {
		y = -1.0
	}
	if z < -1.0 {
		z = -1.0
	}
	s.WriteBit(x < 0.0)
	if y == 0.0 {
		s.WriteBit(true)
	} else {
		s.WriteBit(false)
		s.WriteCompressedFloat(y)
	}
	if z == 0.0 {
		s.WriteBit(true)
	} else {
		s.WriteBit(false)
		s.WriteCompressedFloat(z)
	}
}

// ReadNormVector reconstructs x from sqrt(1 - y^2 - z^2) with the
// recorded sign.
func (s *Stream) ReadNormVector() (x, y, z float32, err error) {
	xNeg, err := s.ReadBit()
	if err != nil {
		return
	}
	yZero, err := s.ReadBit()
	if err != nil {
		return
	}
	if yZero {
		y = 0
	} else {
		y, err = s.ReadCompressedFloat()
		if err != nil {
			return
		}
	}
	zZero, err := s.ReadBit()
	if err != nil {
		return
	}
	if zZero {
		z = 0
	} else {
		z, err = s.ReadCompressedFloat()
		if err != nil {
			return
		}
	}
	radicand := 1.0 - y*y - z*z
	if radicand < 0 {
		radicand = 0
	}
	x = float32(math.Sqrt(float64(radicand)))
	if xNeg {
		x = -x
	}
	return
}

// WriteNormQuat writes a unit quaternion: four sign bits (w,x,y,z), then
// three unsigned 16-bit magnitudes for x, y, z (|v|*65535). w is left
// out and reconstructed on read.
func (s *Stream) WriteNormQuat(w, x, y, z float32) {
	s.WriteBit(w < 0.0)
	s.WriteBit(x < 0.0)
	s.WriteBit(y < 0.0)
	s.WriteBit(z < 0.0)
	s.WriteU16(uint16(float32(math.Abs(float64(x))) * 65535.0))
	s.WriteU16(uint16(float32(math.Abs(float64(y))) * 65535.0))
	s.WriteU16(uint16(float32(math.Abs(float64(z))) * 65535.0))
}

// ReadNormQuat reconstructs w = sqrt(1 - x^2 - y^2 - z^2) with the
// recorded sign.
func (s *Stream) ReadNormQuat() (w, x, y, z float32, err error) {
	wNeg, err := s.ReadBit()
	if err != nil {
		return
	}
	xNeg, err := s.ReadBit()
	if err != nil {
		return
	}
	yNeg, err := s.ReadBit()
	if err != nil {
		return
	}
	zNeg, err := s.ReadBit()
	if err != nil {
		return
	}
	ux, err := s.ReadU16()
	if err != nil {
		return
	}
	uy, err := s.ReadU16()
	if err != nil {
		return
	}
	uz, err := s.ReadU16()
	if err != nil {
		return
	}
	x = float32(ux) / 65535.0
	y = float32(uy) / 65535.0
	z = float32(uz) / 65535.0
	if xNeg {
		x = -x
	}
	if yNeg {
		y = -y
	}
	if zNeg {
		z = -z
	}
	radicand := 1.0 - x*x - y*y - z*z
	if radicand < 0 {
		radicand = 0
	}
	w = float32(math.Sqrt(float64(radicand)))
	if wNeg {
		w = -w
	}
	return
}

// WritePercentPair writes two values in 0..100 as a single byte: ceil(a/7)
// in the high nibble, ceil(b/7) in the low nibble; 0x0F in either nibble
// means "100 or more".
func (s *Stream) WritePercentPair(a, b uint8) {
	s.WriteU8(percentNibble(a)<<4 | percentNibble(b))
}

// ReadPercentPair reads a byte written by WritePercentPair, returning the
// upper bound each nibble represents (nibble*7, capped at 100).
func (s *Stream) ReadPercentPair() (a, b uint8, err error) {
	v, err := s.ReadU8()
	if err != nil {
		return
	}
	a = nibbleToPercent(v >> 4)
	b = nibbleToPercent(v & 0x0F)
	return
}

func percentNibble(v uint8) uint8 {
	if v >= 100 {
		return 0x0F
	}
	n := (uint16(v) + 6) / 7 // ceil(v/7)
	if n > 0x0E {
		n = 0x0E
	}
	return uint8(n)
}

func nibbleToPercent(n uint8) uint8 {
	if n >= 0x0F {
		return 100
	}
	v := n * 7
	if v > 100 {
		v = 100
	}
	return v
}

// WriteDynamicString8 writes a length-prefixed string with an 8-bit length.
func (s *Stream) WriteDynamicString8(str string) {
	s.WriteU8(uint8(len(str)))
	s.WriteRaw([]byte(str))
}

// ReadDynamicString8 reads a string written by WriteDynamicString8.
func (s *Stream) ReadDynamicString8() (string, error) {
	n, err := s.ReadU8()
	if err != nil {
		return "", err
	}
	b, err := s.ReadRaw(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteDynamicString16 writes a length-prefixed string with a 16-bit length.
func (s *Stream) WriteDynamicString16(str string) {
	s.WriteU16(uint16(len(str)))
	s.WriteRaw([]byte(str))
}

// ReadDynamicString16 reads a string written by WriteDynamicString16.
func (s *Stream) ReadDynamicString16() (string, error) {
	n, err := s.ReadU16()
	if err != nil {
		return "", err
	}
	b, err := s.ReadRaw(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteDynamicString32 writes a length-prefixed string with a 32-bit length.
func (s *Stream) WriteDynamicString32(str string) {
	s.WriteU32(uint32(len(str)))
	s.WriteRaw([]byte(str))
}

// ReadDynamicString32 reads a string written by WriteDynamicString32.
func (s *Stream) ReadDynamicString32() (string, error) {
	n, err := s.ReadU32()
	if err != nil {
		return "", err
	}
	b, err := s.ReadRaw(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteFixedString writes a string raw with no length prefix; the reader
// must know the length out of band.
func (s *Stream) WriteFixedString(str string) { s.WriteRaw([]byte(str)) }

// ReadFixedString reads n raw bytes as a string.
func (s *Stream) ReadFixedString(n int) (string, error) {
	b, err := s.ReadRaw(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
