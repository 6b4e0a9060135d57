package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest(http.MethodPost, "/auth/login", http.StatusOK, 10*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "/auth/login", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "/auth/login", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestRecordAuth(t *testing.T) {
	m := New()

	m.RecordAuth("login", OutcomeInvalidCredentials)
	m.RecordAuth("login", OutcomeInvalidCredentials)
	m.RecordAuth("register", OutcomeSuccess)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.authOutcomes.WithLabelValues("login", OutcomeInvalidCredentials)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.authOutcomes.WithLabelValues("register", OutcomeSuccess)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		m.RecordAuth("login", OutcomeSuccess)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerExposesServiceMetrics(t *testing.T) {
	m := New()
	m.RecordAuth("register", OutcomeSuccess)

	srv := httptest.NewServer(m.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `membership_auth_operations_total{operation="register",outcome="success"} 1`))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
