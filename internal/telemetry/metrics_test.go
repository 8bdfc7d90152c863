package telemetry

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSearch(OutcomeOK, time.Second)
	m.ObserveRecords(3, 1)
	m.ObserveCache(true)
}

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveSearch(OutcomeOK, 200*time.Millisecond)
	m.ObserveSearch(OutcomeOK, 0)
	m.ObserveSearch(OutcomeInvalid, 0)
	m.ObserveRecords(8, 2)
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)

	if got := testutil.ToFloat64(m.SearchesTotal.WithLabelValues(OutcomeOK)); got != 2 {
		t.Errorf("Expected 2 ok searches, got %v", got)
	}
	if got := testutil.ToFloat64(m.SearchesTotal.WithLabelValues(OutcomeInvalid)); got != 1 {
		t.Errorf("Expected 1 invalid search, got %v", got)
	}
	if got := testutil.ToFloat64(m.RecordsKept); got != 8 {
		t.Errorf("Expected 8 kept records, got %v", got)
	}
	if got := testutil.ToFloat64(m.RecordsDiscarded); got != 2 {
		t.Errorf("Expected 2 discarded records, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheHits); got != 1 {
		t.Errorf("Expected 1 cache hit, got %v", got)
	}
	if got := testutil.ToFloat64(m.CacheMisses); got != 2 {
		t.Errorf("Expected 2 cache misses, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSearch(OutcomeEmpty, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`kuvahaku_searches_total{outcome="empty"} 1`,
		"kuvahaku_search_duration_seconds_count 1",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("Expected metrics output to contain %q", want)
		}
	}
}
