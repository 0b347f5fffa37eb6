package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/test")
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	require.Contains(t, body, `vrinv_http_requests_total{code="418",route="/test"} 1`)
	require.Contains(t, body, `vrinv_http_request_duration_seconds_bucket{route="/test"`)
}

func TestObserveWrite(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveWrite("sale", OutcomeOK)
	metrics.ObserveWrite("sale", OutcomeOK)
	metrics.ObserveWrite("stock_move", OutcomeInvalid)
	metrics.PartyCreated()

	body := scrape(t, metrics)
	require.Contains(t, body, `vrinv_ledger_writes_total{operation="sale",outcome="ok"} 2`)
	require.Contains(t, body, `vrinv_ledger_writes_total{operation="stock_move",outcome="invalid"} 1`)
	require.Contains(t, body, `vrinv_parties_created_total 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveWrite("sale", OutcomeError)
	metrics.PartyCreated()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	rr := httptest.NewRecorder()
	metrics.Middleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
