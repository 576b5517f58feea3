// Copyright (C) 2024-2026, open.mp reimplementation contributors.
// See the file LICENSE for licensing terms.

package reliability

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes the transport's network-statistics counters. Every
// subsystem failure that is silently dropped per the error-handling
// policy still shows up here, so operators can see it without the
// logger running at debug level.
type Metrics struct {
	DatagramsReceived prometheus.Counter
	DatagramsSent     prometheus.Counter
	BadCRC            prometheus.Counter
	Truncated         prometheus.Counter
	Resent            prometheus.Counter
	PendingResends    prometheus.GaugeFunc
	ConnectedPeers    prometheus.Gauge
	PingSample        prometheus.Histogram
}

// NewMetrics registers the transport's counters on reg and returns
// them. Pass a *prometheus.Registry per process, or
// prometheus.DefaultRegisterer to use the global one.
func NewMetrics(reg prometheus.Registerer, pendingResends func() float64) *Metrics {
	m := &Metrics{
		DatagramsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sampd",
			Subsystem: "reliability",
			Name:      "datagrams_received_total",
			Help:      "Datagrams received across all peers.",
		}),
		DatagramsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sampd",
			Subsystem: "reliability",
			Name:      "datagrams_sent_total",
			Help:      "Datagrams sent across all peers, including resends.",
		}),
		BadCRC: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sampd",
			Subsystem: "reliability",
			Name:      "bad_crc_total",
			Help:      "Datagrams silently dropped for failing their checksum.",
		}),
		Truncated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sampd",
			Subsystem: "reliability",
			Name:      "truncated_total",
			Help:      "Datagrams silently dropped for being malformed or too short.",
		}),
		Resent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sampd",
			Subsystem: "reliability",
			Name:      "resent_total",
			Help:      "Reliable messages retransmitted after timing out unacknowledged.",
		}),
		ConnectedPeers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sampd",
			Subsystem: "reliability",
			Name:      "connected_peers",
			Help:      "Current number of peers in the connected state.",
		}),
		PingSample: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sampd",
			Subsystem: "reliability",
			Name:      "ping_seconds",
			Help:      "Observed peer round-trip ping samples.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.PendingResends = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sampd",
		Subsystem: "reliability",
		Name:      "pending_resends",
		Help:      "Reliable messages currently waiting on acknowledgement, summed across peers.",
	}, pendingResends)

	reg.MustRegister(m.DatagramsReceived, m.DatagramsSent, m.BadCRC, m.Truncated, m.Resent,
		m.PendingResends, m.ConnectedPeers, m.PingSample)
	return m
}

// NewUnregisteredMetrics builds a Metrics instance backed by a private
// registry, for tests and for servers run without a -metrics-addr.
func NewUnregisteredMetrics(pendingResends func() float64) *Metrics {
	return NewMetrics(prometheus.NewRegistry(), pendingResends)
}
