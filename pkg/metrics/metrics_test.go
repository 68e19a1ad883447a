package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestObserveBill(t *testing.T) {
	m := New("dairy")
	m.ObserveBill("Cash", decimal.RequireFromString("60.50"))
	m.ObserveBill("Cash", decimal.RequireFromString("39.50"))

	if got := testutil.ToFloat64(m.bills.WithLabelValues("Cash")); got != 2 {
		t.Errorf("bills_created_total{Cash} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.revenue.WithLabelValues("Cash")); got != 100 {
		t.Errorf("sales_amount_total{Cash} = %v, want 100", got)
	}
}

func TestHandlerExposesRequests(t *testing.T) {
	m := New("dairy")
	m.ObserveRequest(http.MethodGet, "/api/v1/products", 200, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), `dairy_http_requests_total{method="GET",route="/api/v1/products",status="200"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", rec.Body.String())
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/", 200, time.Second)
	m.ObserveBill("Cash", decimal.NewFromInt(1))
}
