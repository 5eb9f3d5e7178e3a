package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_ObserveSearch(t *testing.T) {
	rec := NewRecorder()
	before := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("ok"))

	rec.ObserveSearch("ok", 3)

	after := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("ok"))
	if after-before != 1 {
		t.Errorf("search_requests_total{outcome=ok} delta = %f, want 1", after-before)
	}
	if testutil.CollectAndCount(SearchResults) == 0 {
		t.Error("expected search_results to have observations")
	}
}

func TestRecorder_ObserveLogWrite(t *testing.T) {
	rec := NewRecorder()
	before := testutil.ToFloat64(SearchLogWritesTotal.WithLabelValues("dropped"))

	rec.ObserveLogWrite("dropped")
	rec.ObserveLogWrite("dropped")

	after := testutil.ToFloat64(SearchLogWritesTotal.WithLabelValues("dropped"))
	if after-before != 2 {
		t.Errorf("search_log_writes_total{status=dropped} delta = %f, want 2", after-before)
	}
}

func TestRegisterSearchMetrics_Idempotent(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()
	if !searchMetricsRegistered {
		t.Fatal("expected metrics to be registered")
	}
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	RegisterSearchMetrics()
	NewRecorder().ObserveSearch("empty", 0)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body, err := io.ReadAll(rr.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "dreamdex_search_requests_total") {
		t.Error("expected dreamdex_search_requests_total in exposition")
	}
}
