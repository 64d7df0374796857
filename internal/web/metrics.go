package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buzzboard_state_transitions_total",
		Help: "State transitions observed by the presentation bridge, by entered state.",
	}, []string{"state"})

	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buzzboard_client_events_total",
		Help: "Events posted by connected clients, by socket event name.",
	}, []string{"event"})

	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "buzzboard_connected_clients",
		Help: "Currently connected scoreboard/operator clients.",
	})

	frameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "buzzboard_frame_duration_seconds",
		Help:    "Time between successive presentation frames.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
)
