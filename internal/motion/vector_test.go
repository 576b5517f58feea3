package motion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistanceIsEuclidean(t *testing.T) {
	require.InDelta(t, 5, Distance(Vector3{0, 0, 0}, Vector3{3, 4, 0}), 0.0001)
}

func TestVectorAddSubScale(t *testing.T) {
	a := Vector3{1, 2, 3}
	b := Vector3{4, 5, 6}
	require.Equal(t, Vector3{5, 7, 9}, a.Add(b))
	require.Equal(t, Vector3{-3, -3, -3}, a.Sub(b))
	require.Equal(t, Vector3{2, 4, 6}, a.Scale(2))
}
