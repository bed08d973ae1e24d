package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)
	m.ObserveTurn("hold_music", 216)
	m.ObserveTurn("hold_music", 180)
	m.ObserveTurn("confusion", 0)
	m.ObserveSinkFailure("csv")
	m.ObserveProcessLatency(0.002)
	m.SetActiveConversations(4)
	m.ObserveWebhook("voice", "ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turnsTotal.WithLabelValues("hold_music")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turnsTotal.WithLabelValues("confusion")))
	assert.Equal(t, 396.0, testutil.ToFloat64(m.timeWastedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sinkFailures.WithLabelValues("csv")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.activeConversations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhookTotal.WithLabelValues("voice", "ok")))
}

func TestEngineMetricsDefaultRegistry(t *testing.T) {
	m := NewEngineMetrics(nil)
	m.ObserveTurn("questions", 60)
}

func TestEngineMetricsNilSafe(t *testing.T) {
	var m *EngineMetrics
	m.ObserveTurn("confusion", 30)
	m.ObserveSinkFailure("postgres")
	m.ObserveProcessLatency(0.1)
	m.SetActiveConversations(1)
	m.ObserveWebhook("status", "error")
}

func TestEngineMetricsLatencyHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)
	m.ObserveProcessLatency(0.0002)
	m.ObserveProcessLatency(0.05)

	families, err := reg.Gather()
	require.NoError(t, err)

	var hist *dto.Histogram
	for _, mf := range families {
		if mf.GetName() == "scambait_engine_process_seconds" {
			require.Equal(t, dto.MetricType_HISTOGRAM, mf.GetType())
			hist = mf.GetMetric()[0].GetHistogram()
		}
	}
	require.NotNil(t, hist)
	assert.Equal(t, uint64(2), hist.GetSampleCount())
	assert.InDelta(t, 0.0502, hist.GetSampleSum(), 1e-9)
	assert.Len(t, hist.GetBucket(), 8)
}
