// Package metric exposes the bridge's Prometheus instrumentation.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rprint_connections_active",
		Help: "Number of open websocket connections.",
	})

	MessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rprint_messages_total",
		Help: "Inbound protocol messages by type.",
	}, []string{"type"})

	PrintJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rprint_print_jobs_total",
		Help: "Print jobs by outcome.",
	}, []string{"status"})
)
