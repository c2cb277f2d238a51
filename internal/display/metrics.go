package display

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess   = "success"
	outcomeError     = "error"
	outcomeAbandoned = "abandoned"
)

// Metrics records fetch outcomes. A nil *Metrics records nothing.
type Metrics struct {
	fetches  *prometheus.CounterVec
	duration prometheus.Histogram
	inFlight prometheus.Gauge
}

// NewMetrics registers the display collectors with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "demofront",
			Subsystem: "display",
			Name:      "fetch_total",
			Help:      "Display fetches by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "demofront",
			Subsystem: "display",
			Name:      "fetch_duration_seconds",
			Help:      "Time from mount to fetch settle.",
			Buckets:   prometheus.DefBuckets,
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "demofront",
			Subsystem: "display",
			Name:      "mounts_active",
			Help:      "Mounted components whose fetch has not settled.",
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.fetches, m.duration, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register display metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) mountStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *Metrics) mountFinished() {
	if m == nil {
		return
	}
	m.inFlight.Dec()
}

func (m *Metrics) observe(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}
