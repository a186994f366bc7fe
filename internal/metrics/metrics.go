package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the engine's counters. A nil *Metrics is a no-op so
// tests can skip wiring it.
type Metrics struct {
	opened     prometheus.Counter
	closed     *prometheus.CounterVec
	cacheMiss  prometheus.Counter
	cacheError prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		opened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grouporders", Name: "groups_opened_total",
			Help: "Group orders opened.",
		}),
		closed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grouporders", Name: "groups_closed_total",
			Help: "Group orders closed, by who triggered the close.",
		}, []string{"reason"}),
		cacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grouporders", Name: "cache_misses_total",
			Help: "Reads that fell back to the store.",
		}),
		cacheError: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grouporders", Name: "cache_errors_total",
			Help: "Cache operations that failed and were ignored.",
		}),
	}
	reg.MustRegister(m.opened, m.closed, m.cacheMiss, m.cacheError)
	return m
}

func (m *Metrics) GroupOpened() {
	if m != nil {
		m.opened.Inc()
	}
}

func (m *Metrics) GroupClosed(reason string) {
	if m != nil {
		m.closed.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) CacheMiss() {
	if m != nil {
		m.cacheMiss.Inc()
	}
}

func (m *Metrics) CacheError() {
	if m != nil {
		m.cacheError.Inc()
	}
}
