package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP("POST", "/api/search", 200, 20*time.Millisecond)
	m.ObserveHTTP("POST", "/api/search", 200, 30*time.Millisecond)
	m.ObserveHTTP("POST", "/api/search", 500, time.Millisecond)

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/search", "200")); got != 2 {
		t.Errorf("200 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/search", "500")); got != 1 {
		t.Errorf("500 count = %v, want 1", got)
	}
}

func TestObserveNLP(t *testing.T) {
	m := New()
	m.ObserveNLP(OutcomeOK, 100*time.Millisecond)
	m.ObserveNLP(OutcomeCacheHit, 0)
	m.ObserveNLP(OutcomeError, time.Second)

	for _, outcome := range []string{OutcomeOK, OutcomeCacheHit, OutcomeError} {
		if got := testutil.ToFloat64(m.nlpRequests.WithLabelValues(outcome)); got != 1 {
			t.Errorf("%s count = %v, want 1", outcome, got)
		}
	}
	if got := testutil.CollectAndCount(m.nlpDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
}

func TestObserveSearch(t *testing.T) {
	m := New()
	m.ObserveSearch(true, false, 12)

	if got := testutil.ToFloat64(m.searches.WithLabelValues("true", "false")); got != 1 {
		t.Errorf("search count = %v, want 1", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	m.ObserveNLP(OutcomeOK, time.Millisecond)
	m.ObserveSearch(false, false, 0)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSearch(false, true, 3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"meetingmap_searches_total", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %s", want)
		}
	}
}
