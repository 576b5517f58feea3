package huffman

import (
	"testing"

	"github.com/openmprun/sampd/internal/bitstream"
	"github.com/stretchr/testify/require"
)

func TestBuildAssignsShorterCodesToHigherFrequency(t *testing.T) {
	tree := Default()
	require.Less(t, tree.encoding[' '].length, tree.encoding[0].length)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tree := Default()
	cases := []string{
		"hello world",
		"",
		"THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG",
		"a",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
	}
	for _, c := range cases {
		s := bitstream.New()
		tree.EncodeArray([]byte(c), s)
		s.ResetRead()
		got, err := tree.DecodeLengthPrefixed(s, len(c))
		require.NoError(t, err)
		require.Equal(t, []byte(c), got, "case %q", c)
	}
}

func TestDecodeArrayStopsAtMaxChars(t *testing.T) {
	tree := Default()
	s := bitstream.New()
	tree.EncodeArray([]byte("hello world"), s)
	s.ResetRead()
	got, err := tree.DecodeLengthPrefixed(s, 5)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestEncodeArrayIsByteAlignedAfterPadding(t *testing.T) {
	tree := Default()
	s := bitstream.New()
	tree.EncodeArray([]byte("x"), s)
	require.Equal(t, 0, s.BitLength()%8)
}

func TestBuildWithAllZeroFrequenciesStillProducesUniqueCodes(t *testing.T) {
	var freq [256]uint64
	tree := Build(freq)
	s := bitstream.New()
	payload := []byte{0, 1, 2, 3, 255}
	tree.EncodeArray(payload, s)
	s.ResetRead()
	got, err := tree.DecodeLengthPrefixed(s, len(payload))
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestDefaultIsMemoized(t *testing.T) {
	require.Same(t, Default(), Default())
}
