package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments engine operations. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewMetrics creates the store collectors and registers them with reg when
// reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "guardian",
			Subsystem: "store",
			Name:      "op_duration_seconds",
			Help:      "Duration of store operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"collection", "op"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guardian",
			Subsystem: "store",
			Name:      "op_errors_total",
			Help:      "Failed store operations by error kind.",
		}, []string{"collection", "op", "kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.duration, m.errors)
	}
	return m
}

func (m *Metrics) observe(collection, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.errors.WithLabelValues(collection, op, errorKind(err)).Inc()
	}
}
