package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreIndependentPerInstance(t *testing.T) {
	a := New()
	b := New()

	a.IncrementCreated("subscriber")
	a.IncrementCreated("subscriber")
	b.IncrementCreated("subscriber")

	assert.Equal(t, 2.0, testutil.ToFloat64(a.DocumentsCreated.WithLabelValues("subscriber")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.DocumentsCreated.WithLabelValues("subscriber")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.IncrementValidationFailure("message", "missing_field")
	m.IncrementStoreError("create")
	m.ObserveRequest("GET", "/api/destinations", "200", time.Now())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `travelapi_validation_failures_total{collection="message",kind="missing_field"} 1`)
	assert.Contains(t, body, `travelapi_store_errors_total{operation="create"} 1`)
	assert.Contains(t, body, "travelapi_request_duration_seconds_bucket")
}
