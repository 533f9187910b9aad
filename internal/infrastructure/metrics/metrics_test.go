package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Distribucion-api/internal/infrastructure/metrics"
)

func TestMetrics_Contadores(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())

	m.IncrementTransition("send", "committed")
	m.IncrementTransition("send", "committed")
	m.IncrementTransition("send", "illegal_transition")
	m.ObserveDiscrepancies(3)
	m.ObserveAutoInclusion(2, 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Transitions.WithLabelValues("send", "committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("send", "illegal_transition")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Discrepancies))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AutoInclusion.WithLabelValues("included")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AutoInclusion.WithLabelValues("excluded")))
}

func TestMetrics_NilEsSeguro(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.IncrementTransition("send", "committed")
		m.ObserveDiscrepancies(1)
		m.ObserveAutoInclusion(1, 1)
	})
}
