package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters for the lead-submission pipeline.
type LeadMetrics struct {
	submissionsTotal *prometheus.CounterVec
	inFlightRejected prometheus.Counter
	notifyFailures   *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gruzpro",
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Lead submissions by outcome",
		}, []string{"outcome"}),
		inFlightRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gruzpro",
			Subsystem: "leads",
			Name:      "in_flight_rejected_total",
			Help:      "Submissions rejected by the single-flight guard",
		}),
		notifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gruzpro",
			Subsystem: "leads",
			Name:      "notify_failures_total",
			Help:      "Best-effort notification failures by channel",
		}, []string{"channel"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.inFlightRejected, m.notifyFailures)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveInFlightRejected() {
	if m == nil {
		return
	}
	m.inFlightRejected.Inc()
}

func (m *LeadMetrics) ObserveNotifyFailure(channel string) {
	if m == nil {
		return
	}
	m.notifyFailures.WithLabelValues(channel).Inc()
}

// NewsCacheMetrics exposes hit/miss counters for the public news cache.
type NewsCacheMetrics struct {
	lookups *prometheus.CounterVec
}

func NewNewsCacheMetrics(reg prometheus.Registerer) *NewsCacheMetrics {
	m := &NewsCacheMetrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gruzpro",
			Subsystem: "news",
			Name:      "cache_lookups_total",
			Help:      "News cache lookups by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.lookups)
	return m
}

func (m *NewsCacheMetrics) ObserveLookup(result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(result).Inc()
}
