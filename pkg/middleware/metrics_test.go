package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /commodities/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	m := NewMetrics("commodity_api")
	handler := m.Middleware(newTestMux())

	for _, path := range []string{"/commodities/apple", "/commodities/pear", "/commodities/missing"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET /commodities/{id}", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET /commodities/{id}", "GET", "404")))
}

func TestMetrics_UnmatchedRoutes(t *testing.T) {
	m := NewMetrics("commodity_api")
	handler := m.Middleware(newTestMux())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(unmatchedRoute, "GET", "404")))
}

func TestMetrics_HandlerExposesCollectors(t *testing.T) {
	m := NewMetrics("commodity_api")
	m.Middleware(newTestMux()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/commodities/apple", nil))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "commodity_api_http_requests_total"))
	assert.True(t, strings.Contains(body, "commodity_api_http_request_duration_seconds"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
