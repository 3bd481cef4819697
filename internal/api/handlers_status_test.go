package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/projecthelena/legacyapp/internal/logging"
	"github.com/projecthelena/legacyapp/internal/status"
)

func TestRoot(t *testing.T) {
	ts := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	h := NewStatusHandler(status.ClockFunc(func() (time.Time, error) { return ts, nil }), logging.NewWithWriter(&bytes.Buffer{}, "test"))

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	h.Root(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("expected text/plain, got %q", got)
	}

	want := "This is deployment 12 !! Legacy Java App is running successfully! Deployed at: 2026-10-14T09:30:00Z"
	if got := w.Body.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRoot_SystemClock(t *testing.T) {
	h := NewStatusHandler(nil, logging.NewWithWriter(&bytes.Buffer{}, "test"))

	w := httptest.NewRecorder()
	h.Root(w, httptest.NewRequest("GET", "/", nil))

	deployedAt, err := status.ParseDeployedAt(w.Body.String())
	if err != nil {
		t.Fatalf("body %q does not parse: %v", w.Body.String(), err)
	}
	if d := time.Since(deployedAt); d < -5*time.Second || d > 5*time.Second {
		t.Errorf("deployedAt %v is %v away from now", deployedAt, d)
	}
}

func TestRoot_ClockUnavailable(t *testing.T) {
	var logs bytes.Buffer
	h := NewStatusHandler(status.ClockFunc(func() (time.Time, error) {
		return time.Time{}, errors.New("no rtc")
	}), logging.NewWithWriter(&logs, "test"))

	w := httptest.NewRecorder()
	h.Root(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if got := w.Body.String(); got != "clock unavailable" {
		t.Errorf("expected clock unavailable body, got %q", got)
	}
	if !strings.Contains(logs.String(), "no rtc") {
		t.Errorf("expected cause in logs, got %q", logs.String())
	}
}
