package status

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedClock(ts time.Time) Clock {
	return ClockFunc(func() (time.Time, error) { return ts, nil })
}

func TestRoot(t *testing.T) {
	t.Run("Renders prefix and UTC timestamp", func(t *testing.T) {
		ts := time.Date(2026, 10, 14, 9, 30, 0, 123456789, time.FixedZone("CEST", 2*60*60))
		resp, err := Root(fixedClock(ts))
		if err != nil {
			t.Fatalf("Root() error = %v", err)
		}

		want := RootPrefix + "2026-10-14T07:30:00.123456789Z"
		if got := resp.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("Reads the clock on every call", func(t *testing.T) {
		calls := 0
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		clock := ClockFunc(func() (time.Time, error) {
			calls++
			return base.Add(time.Duration(calls) * time.Millisecond), nil
		})

		first, _ := Root(clock)
		second, _ := Root(clock)
		if calls != 2 {
			t.Fatalf("expected 2 clock reads, got %d", calls)
		}
		if first.String() == second.String() {
			t.Errorf("expected distinct bodies, both were %q", first.String())
		}
	})

	t.Run("System clock is close to now", func(t *testing.T) {
		resp, err := Root(SystemClock)
		if err != nil {
			t.Fatalf("Root() error = %v", err)
		}
		deployedAt, err := ParseDeployedAt(resp.String())
		if err != nil {
			t.Fatalf("ParseDeployedAt() error = %v", err)
		}
		if d := time.Since(deployedAt); d < -5*time.Second || d > 5*time.Second {
			t.Errorf("timestamp %v is %v away from now", deployedAt, d)
		}
	})

	t.Run("Clock error", func(t *testing.T) {
		boom := errors.New("rtc offline")
		_, err := Root(ClockFunc(func() (time.Time, error) { return time.Time{}, boom }))
		if !errors.Is(err, ErrClockUnavailable) {
			t.Errorf("expected ErrClockUnavailable, got %v", err)
		}
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped cause, got %v", err)
		}
	})

	t.Run("Zero time", func(t *testing.T) {
		if _, err := Root(fixedClock(time.Time{})); !errors.Is(err, ErrClockUnavailable) {
			t.Errorf("expected ErrClockUnavailable, got %v", err)
		}
	})

	t.Run("Nil clock", func(t *testing.T) {
		if _, err := Root(nil); !errors.Is(err, ErrClockUnavailable) {
			t.Errorf("expected ErrClockUnavailable, got %v", err)
		}
	})
}

func TestHealth(t *testing.T) {
	if got := Health().Status; got != "UP" {
		t.Errorf("expected UP, got %q", got)
	}
}

func TestParseDeployedAt(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got, err := ParseDeployedAt(RootResponse{Message: RootPrefix, DeployedAt: ts}.String())
	if err != nil {
		t.Fatalf("ParseDeployedAt() error = %v", err)
	}
	if !got.Equal(ts) {
		t.Errorf("expected %v, got %v", ts, got)
	}

	if _, err := ParseDeployedAt("Legacy Java App is running"); !errors.Is(err, ErrUnexpectedBody) {
		t.Errorf("expected ErrUnexpectedBody, got %v", err)
	}

	if _, err := ParseDeployedAt(RootPrefix + "yesterday"); err == nil || strings.Contains(err.Error(), "root prefix") {
		t.Errorf("expected a time parse error, got %v", err)
	}
}
