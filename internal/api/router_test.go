package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

type stubCounter struct {
	counts map[string]int
	err    error
}

func (s *stubCounter) JobCounts(ctx context.Context) (map[string]int, error) {
	return s.counts, s.err
}

type stubPinger struct{ err error }

func (s *stubPinger) PingContext(ctx context.Context) error { return s.err }

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestHealth(t *testing.T) {
	h := NewHandler(&stubCounter{}, &stubPinger{}, testLogger())
	r := NewRouter(h, RouterConfig{})

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHealthDegradedOnDBFailure(t *testing.T) {
	h := NewHandler(&stubCounter{}, &stubPinger{err: errors.New("connection refused")}, testLogger())
	r := NewRouter(h, RouterConfig{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestStats(t *testing.T) {
	counter := &stubCounter{counts: map[string]int{"pending": 3, "running": 1}}
	h := NewHandler(counter, &stubPinger{}, testLogger())
	r := NewRouter(h, RouterConfig{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Jobs map[string]int `json:"jobs"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Jobs["pending"] != 3 || body.Jobs["running"] != 1 {
		t.Errorf("jobs = %v", body.Jobs)
	}
}
