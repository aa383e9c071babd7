package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveConversion(t *testing.T) {
	m := New()

	m.ObserveConversion("jalali", "ok", time.Millisecond)
	m.ObserveConversion("jalali", "ok", time.Millisecond)
	m.ObserveConversion("", "extraction", time.Microsecond)

	if got := testutil.ToFloat64(m.Conversions.WithLabelValues("jalali", "ok")); got != 2 {
		t.Errorf("expected 2 jalali conversions, got %f", got)
	}
	if got := testutil.ToFloat64(m.Conversions.WithLabelValues("none", "extraction")); got != 1 {
		t.Errorf("expected empty era to be recorded as none, got %f", got)
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.SendErrors.Inc()

	if got := testutil.ToFloat64(b.SendErrors); got != 0 {
		t.Errorf("registries should not share collectors, got %f", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.Updates.WithLabelValues("text").Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	if !strings.Contains(string(body), `taghvim_updates_total{kind="text"} 1`) {
		t.Errorf("expected updates counter in exposition, got:\n%s", body)
	}
}
