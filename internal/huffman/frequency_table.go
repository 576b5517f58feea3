// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

package huffman

import "sync"

// EnglishFrequencies is the fixed per-byte-value frequency table the
// client and server both build their string-compression tree from. It
// is English prose letter/space frequency, indexed by byte value, and
// never changes at runtime.
var EnglishFrequencies = [256]uint64{
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 722, 0, 0, 2, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	11084, 58, 63, 1, 0, 31, 0, 317,
	64, 64, 44, 0, 695, 62, 980, 266,
	69, 67, 56, 7, 73, 3, 14, 2,
	69, 1, 167, 9, 1, 2, 25, 94,
	0, 195, 139, 34, 96, 48, 103, 56,
	125, 653, 21, 5, 23, 64, 85, 44,
	34, 7, 92, 76, 147, 12, 14, 57,
	15, 39, 15, 1, 1, 1, 2, 3,
	0, 3611, 845, 1077, 1884, 5870, 841, 1057,
	2501, 3212, 164, 531, 2019, 1330, 3056, 4037,
	848, 47, 2586, 2919, 4771, 1707, 535, 1106,
	152, 1243, 100, 0, 2, 0, 10, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var defaultTreeOnce sync.Once
var defaultTree *Tree

// Default returns the process-wide tree built from EnglishFrequencies,
// building it on first use and reusing it afterward.
func Default() *Tree {
	defaultTreeOnce.Do(func() {
		defaultTree = Build(EnglishFrequencies)
	})
	return defaultTree
}
