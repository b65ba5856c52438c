package metrics_test

import (
	"testing"

	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.ProviderRequests.WithLabelValues("gsi", "hit").Inc()
	m.Resolutions.WithLabelValues("submit", "resolved").Add(2)
	m.ActiveWorkers.Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.ProviderRequests.WithLabelValues("gsi", "hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Resolutions.WithLabelValues("submit", "resolved")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ActiveWorkers), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.Panics(t, func() { metrics.NewMetrics(reg) }, "registering twice must fail")
}
