package reliability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersEveryCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, func() float64 { return 3 })
	require.NotNil(t, m)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	found := false
	for _, f := range families {
		if f.GetName() == "sampd_reliability_pending_resends" {
			found = true
			require.Equal(t, 3.0, f.GetMetric()[0].GetGauge().GetValue())
		}
	}
	require.True(t, found, "expected pending_resends gauge to be registered")
}

func TestNewUnregisteredMetricsUsesAPrivateRegistry(t *testing.T) {
	m := NewUnregisteredMetrics(func() float64 { return 0 })
	require.NotNil(t, m)
	m.DatagramsReceived.Inc()
	m.ConnectedPeers.Set(5)
}
