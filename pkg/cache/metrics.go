package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts memo traffic per stage. A nil *Metrics records nothing.
type Metrics struct {
	Hits      *prometheus.CounterVec
	Misses    *prometheus.CounterVec
	Evictions *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utca",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Stage outputs served from the memo.",
		}, []string{"stage"}),
		Misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utca",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Stage outputs computed because they were not memoized.",
		}, []string{"stage"}),
		Evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "utca",
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Stage outputs evicted from the memo.",
		}, []string{"stage"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "utca",
			Subsystem: "stage",
			Name:      "duration_seconds",
			Help:      "Time spent computing a stage output.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.Hits, m.Misses, m.Evictions, m.Duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) hit(stage string) {
	if m != nil {
		m.Hits.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) miss(stage string) {
	if m != nil {
		m.Misses.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) evicted(stage string) {
	if m != nil {
		m.Evictions.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) observe(stage string, d time.Duration) {
	if m != nil {
		m.Duration.WithLabelValues(stage).Observe(d.Seconds())
	}
}
