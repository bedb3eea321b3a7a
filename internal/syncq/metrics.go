package syncq

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments the queue. A nil *Metrics records nothing.
type Metrics struct {
	depth   prometheus.Gauge
	replays *prometheus.CounterVec
	submits *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "guardian",
			Subsystem: "syncq",
			Name:      "depth",
			Help:      "Items waiting in the offline queue.",
		}),
		replays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guardian",
			Subsystem: "syncq",
			Name:      "replayed_total",
			Help:      "Queue items replayed, by result.",
		}, []string{"result"}),
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guardian",
			Subsystem: "syncq",
			Name:      "submitted_total",
			Help:      "Events handed to the syncer, by outcome (sent or queued).",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.depth, m.replays, m.submits)
	}
	return m
}

func (m *Metrics) setDepth(n int64) {
	if m != nil {
		m.depth.Set(float64(n))
	}
}

func (m *Metrics) replayed(result string) {
	if m != nil {
		m.replays.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) submitted(outcome string) {
	if m != nil {
		m.submits.WithLabelValues(outcome).Inc()
	}
}
