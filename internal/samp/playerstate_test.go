package samp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlayerStateInVehicle(t *testing.T) {
	require.True(t, StateDriver.InVehicle())
	require.True(t, StatePassenger.InVehicle())
	require.False(t, StateOnFoot.InVehicle())
	require.False(t, StateEnterVehicleDriver.InVehicle())
}

func TestPlayerStateString(t *testing.T) {
	require.Equal(t, "driver", StateDriver.String())
	require.Equal(t, "unknown", PlayerState(255).String())
}
