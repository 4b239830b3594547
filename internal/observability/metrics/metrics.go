package metrics

import "github.com/prometheus/client_golang/prometheus"

// GenerationMetrics exposes counters/histograms for welcome generation.
type GenerationMetrics struct {
	generationsTotal  *prometheus.CounterVec
	generationLatency *prometheus.HistogramVec
}

func NewGenerationMetrics(reg prometheus.Registerer) *GenerationMetrics {
	m := &GenerationMetrics{
		generationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "connectioncard",
			Subsystem: "welcome",
			Name:      "generations_total",
			Help:      "Welcome generations by outcome and failure reason",
		}, []string{"outcome", "reason"}),
		generationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "connectioncard",
			Subsystem: "welcome",
			Name:      "generation_latency_seconds",
			Help:      "Latency of welcome generation including fallback",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.generationsTotal, m.generationLatency)
	return m
}

// ObserveGeneration records one Generate call. reason is empty on success.
func (m *GenerationMetrics) ObserveGeneration(outcome, reason string, seconds float64) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "none"
	}
	m.generationsTotal.WithLabelValues(outcome, reason).Inc()
	m.generationLatency.WithLabelValues(outcome).Observe(seconds)
}

// CardMetrics counts connection card submissions at the HTTP boundary.
type CardMetrics struct {
	submissionsTotal *prometheus.CounterVec
}

func NewCardMetrics(reg prometheus.Registerer) *CardMetrics {
	m := &CardMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "connectioncard",
			Subsystem: "cards",
			Name:      "submissions_total",
			Help:      "Connection card submissions by entry point and status",
		}, []string{"source", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal)
	return m
}

func (m *CardMetrics) ObserveSubmission(source, status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(source, status).Inc()
}
