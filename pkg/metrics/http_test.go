package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/api/v1/cart", "200", 25*time.Millisecond)
	m.Observe("GET", "/api/v1/cart", "200", 30*time.Millisecond)

	count := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/cart", "200"))
	assert.Equal(t, float64(2), count)
}

func TestObserveOnNilReceiverIsSafe(t *testing.T) {
	var m *HTTPMetrics
	assert.NotPanics(t, func() {
		m.Observe("GET", "/", "200", time.Millisecond)
	})
}

func TestNewHTTPMetricsWithoutRegisterer(t *testing.T) {
	m := NewHTTPMetrics(nil)
	assert.NotPanics(t, func() {
		m.Observe("GET", "/", "200", time.Millisecond)
	})
}
