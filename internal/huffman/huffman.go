// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

// Package huffman implements the static Huffman string compression used
// for long RPC strings. The tree is built once, at process start, from
// a fixed 256-entry frequency table matching the client's
// English-language byte distribution, and is never rebuilt at runtime.
package huffman

import (
	"container/heap"

	"github.com/openmprun/sampd/internal/bitstream"
)

type node struct {
	weight      uint64
	value       byte
	isLeaf      bool
	left, right *node
}

// code is a byte's root-to-leaf path, MSB-first within the used bits.
type code struct {
	bits   []byte
	length int
}

// Tree is an immutable Huffman encoding/decoding tree built from a
// 256-entry frequency table.
type Tree struct {
	root     *node
	encoding [256]code
}

// nodeHeap is a min-heap over *node by weight. Ties are broken by a
// sequence number taken from the heap's length at push time; numbers
// repeat once nodes have been popped, so this is not strict insertion
// order, but tree construction is still deterministic and reproducible.
type nodeHeap struct {
	nodes []*node
	seq   []int
}

func (h nodeHeap) Len() int { return len(h.nodes) }
func (h nodeHeap) Less(i, j int) bool {
	if h.nodes[i].weight != h.nodes[j].weight {
		return h.nodes[i].weight < h.nodes[j].weight
	}
	return h.seq[i] < h.seq[j]
}
func (h nodeHeap) Swap(i, j int) {
	h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i]
	h.seq[i], h.seq[j] = h.seq[j], h.seq[i]
}
func (h *nodeHeap) Push(x any) {
	h.nodes = append(h.nodes, x.(*node))
	h.seq = append(h.seq, len(h.seq))
}
func (h *nodeHeap) Pop() any {
	old := h.nodes
	n := len(old)
	v := old[n-1]
	h.nodes = old[:n-1]
	h.seq = h.seq[:n-1]
	return v
}

// Build constructs a tree from a 256-entry frequency table. Any
// frequency of 0 is raised to 1 so every byte value remains encodable.
func Build(freq [256]uint64) *Tree {
	h := &nodeHeap{}
	heap.Init(h)
	for i := 0; i < 256; i++ {
		w := freq[i]
		if w == 0 {
			w = 1
		}
		heap.Push(h, &node{weight: w, value: byte(i), isLeaf: true})
	}
	for h.Len() > 1 {
		a := heap.Pop(h).(*node)
		b := heap.Pop(h).(*node)
		heap.Push(h, &node{weight: a.weight + b.weight, left: a, right: b})
	}
	root := heap.Pop(h).(*node)

	t := &Tree{root: root}
	var walk func(n *node, path []byte, depth int)
	walk = func(n *node, path []byte, depth int) {
		if n.isLeaf {
			cp := make([]byte, (depth+7)/8)
			copy(cp, path)
			t.encoding[n.value] = code{bits: cp, length: depth}
			return
		}
		leftPath := appendBit(path, depth, false)
		walk(n.left, leftPath, depth+1)
		rightPath := appendBit(path, depth, true)
		walk(n.right, rightPath, depth+1)
	}
	walk(root, nil, 0)
	return t
}

func appendBit(path []byte, depth int, bit bool) []byte {
	byteLen := (depth + 1 + 7) / 8
	out := make([]byte, byteLen)
	copy(out, path)
	if bit {
		out[depth/8] |= 1 << uint(7-depth%8)
	}
	return out
}

// EncodedLenBits returns the number of bits EncodeArray will write for s,
// before byte-alignment padding.
func (t *Tree) EncodedLenBits(s []byte) int {
	n := 0
	for _, b := range s {
		n += t.encoding[b].length
	}
	return n
}

// EncodeArray writes the compressed 16-bit bit-length followed by each
// input byte's coded path, padded to a byte boundary with a prefix of
// any codeword longer than the remaining bit budget.
func (t *Tree) EncodeArray(s []byte, out *bitstream.Stream) {
	bitLen := t.EncodedLenBits(s)
	out.WriteCompressedU16(uint16(bitLen))
	for _, b := range s {
		c := t.encoding[b]
		out.WriteBitsLeft(c.bits, c.length)
	}
	written := out.BitLength()
	if written%8 != 0 {
		remaining := 8 - written%8
		for i := 0; i < 256; i++ {
			if t.encoding[i].length > remaining {
				out.WriteBitsLeft(t.encoding[i].bits, remaining)
				break
			}
		}
	}
}

// DecodeArray walks the tree bit by bit, stopping at bitLen bits or
// maxChars bytes, whichever comes first. If the max is hit and skip is
// true, the remaining declared bits are consumed from in without being
// decoded.
func (t *Tree) DecodeArray(in *bitstream.Stream, bitLen int, maxChars int, skip bool) ([]byte, error) {
	out := make([]byte, 0, maxChars)
	cur := t.root
	remaining := bitLen
	for remaining > 0 {
		if len(out) == maxChars {
			if skip {
				for ; remaining > 0; remaining-- {
					if _, err := in.ReadBit(); err != nil {
						return out, err
					}
				}
			}
			return out, nil
		}
		bit, err := in.ReadBit()
		if err != nil {
			return out, err
		}
		if bit {
			cur = cur.right
		} else {
			cur = cur.left
		}
		if cur.isLeaf {
			out = append(out, cur.value)
			cur = t.root
		}
		remaining--
	}
	return out, nil
}

// DecodeLengthPrefixed reads the compressed bit-length prefix written by
// EncodeArray and decodes up to maxChars bytes.
func (t *Tree) DecodeLengthPrefixed(in *bitstream.Stream, maxChars int) ([]byte, error) {
	bitLen, err := in.ReadCompressedU16()
	if err != nil {
		return nil, err
	}
	return t.DecodeArray(in, int(bitLen), maxChars, true)
}
