package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := New()

	m.ObserveExtraction("HDFC", 0.75, 3*time.Millisecond)
	m.ObserveExtraction("HDFC", 1, time.Millisecond)
	m.ObserveField("card_number", true)
	m.ObserveField("card_number", false)
	m.ObserveField("card_number", false)
	m.ObserveRequest("/api/v1/statements/parse", http.StatusOK)
	m.ObserveSweep(3)
	m.ObserveSweep(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.extractions.WithLabelValues("HDFC")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.fields.WithLabelValues("card_number", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/v1/statements/parse", "200")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.uploadsSwept))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveExtraction("SBI", 0.5, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `statement_extractions_total{provider="SBI"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveExtraction("HDFC", 1, time.Second)
		m.ObserveField("due_date", true)
		m.ObserveRequest("/healthz", 200)
		m.ObserveSweep(1)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
