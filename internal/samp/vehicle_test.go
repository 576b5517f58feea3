package samp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVehicleDriverAndEmpty(t *testing.T) {
	v := NewVehicle(1, 400, Vector3{}, Quaternion{W: 1})
	require.True(t, v.Empty())
	require.Equal(t, -1, v.Driver())

	v.Passengers[0] = 7
	require.False(t, v.Empty())
	require.Equal(t, 7, v.Driver())
}
