package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics exposes counters/histograms for the engagement engine.
type EngineMetrics struct {
	turnsTotal          *prometheus.CounterVec
	timeWastedTotal     prometheus.Counter
	sinkFailures        *prometheus.CounterVec
	processLatency      prometheus.Histogram
	activeConversations prometheus.Gauge
	webhookTotal        *prometheus.CounterVec
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scambait",
			Subsystem: "engine",
			Name:      "turns_total",
			Help:      "Processed turns by selected strategy",
		}, []string{"strategy"}),
		timeWastedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scambait",
			Subsystem: "engine",
			Name:      "time_wasted_seconds_total",
			Help:      "Estimated seconds of counterpart time consumed",
		}),
		sinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scambait",
			Subsystem: "engine",
			Name:      "sink_failures_total",
			Help:      "Analytics appends that failed",
		}, []string{"sink"}),
		processLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scambait",
			Subsystem: "engine",
			Name:      "process_seconds",
			Help:      "Latency of one engine turn",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		activeConversations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scambait",
			Subsystem: "engine",
			Name:      "active_conversations",
			Help:      "Conversations currently held in memory",
		}),
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scambait",
			Subsystem: "voice",
			Name:      "webhook_total",
			Help:      "Twilio webhooks by kind and outcome",
		}, []string{"kind", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.timeWastedTotal, m.sinkFailures, m.processLatency, m.activeConversations, m.webhookTotal)
	return m
}

func (m *EngineMetrics) ObserveTurn(strategy string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(strategy).Inc()
	if seconds > 0 {
		m.timeWastedTotal.Add(seconds)
	}
}

func (m *EngineMetrics) ObserveSinkFailure(sink string) {
	if m == nil {
		return
	}
	m.sinkFailures.WithLabelValues(sink).Inc()
}

func (m *EngineMetrics) ObserveProcessLatency(seconds float64) {
	if m == nil {
		return
	}
	m.processLatency.Observe(seconds)
}

func (m *EngineMetrics) SetActiveConversations(n int) {
	if m == nil {
		return
	}
	m.activeConversations.Set(float64(n))
}

func (m *EngineMetrics) ObserveWebhook(kind, status string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(kind, status).Inc()
}
