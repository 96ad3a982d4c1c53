package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors exposed on /metrics.
type Metrics struct {
	Mutations      *prometheus.CounterVec
	Renders        *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	Nodes          prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitgraph_mutations_total",
				Help: "Graph mutations by operation and result",
			},
			[]string{"op", "result"},
		),
		Renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gitgraph_renders_total",
				Help: "Graph renders by output format",
			},
			[]string{"format"},
		),
		RenderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gitgraph_render_duration_seconds",
				Help:    "Time spent laying out and drawing the graph",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"format"},
		),
		Nodes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gitgraph_nodes",
				Help: "Number of nodes in the tracked graph",
			},
		),
	}
	reg.MustRegister(m.Mutations, m.Renders, m.RenderDuration, m.Nodes)
	return m
}

func (m *Metrics) mutation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Mutations.WithLabelValues(op, result).Inc()
}
