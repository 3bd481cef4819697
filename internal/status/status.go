package status

import (
	"errors"
	"strings"
	"time"
)

// RootPrefix is the fixed label served by the root route, followed by the deployment timestamp.
const RootPrefix = "This is deployment 12 !! Legacy Java App is running successfully! Deployed at: "

// StatusUp is the only health value the service reports.
const StatusUp = "UP"

// TimestampLayout renders deployedAt as ISO-8601 in UTC.
const TimestampLayout = time.RFC3339Nano

var (
	ErrClockUnavailable = errors.New("clock unavailable")
	ErrUnexpectedBody   = errors.New("body does not carry the root prefix")
)

// Clock is the time source read once per root request.
type Clock interface {
	Now() (time.Time, error)
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() (time.Time, error)

func (f ClockFunc) Now() (time.Time, error) { return f() }

// SystemClock reads the host wall clock.
var SystemClock Clock = ClockFunc(func() (time.Time, error) {
	return time.Now(), nil
})

// RootResponse is the payload of the root route.
type RootResponse struct {
	Message    string    `json:"message"`
	DeployedAt time.Time `json:"deployedAt"`
}

// String renders the plain-text body.
func (r RootResponse) String() string {
	return r.Message + r.DeployedAt.UTC().Format(TimestampLayout)
}

// HealthResponse is the payload of the health route.
type HealthResponse struct {
	Status string `json:"status" example:"UP"`
}

// Root builds a fresh root payload stamped with the current clock reading.
func Root(clock Clock) (RootResponse, error) {
	if clock == nil {
		return RootResponse{}, ErrClockUnavailable
	}

	now, err := clock.Now()
	if err != nil {
		return RootResponse{}, errors.Join(ErrClockUnavailable, err)
	}
	if now.IsZero() {
		return RootResponse{}, ErrClockUnavailable
	}

	return RootResponse{
		Message:    RootPrefix,
		DeployedAt: now,
	}, nil
}

// Health returns the fixed liveness payload.
func Health() HealthResponse {
	return HealthResponse{Status: StatusUp}
}

// ParseDeployedAt extracts the timestamp from a root body. It is the inverse of RootResponse.String.
func ParseDeployedAt(body string) (time.Time, error) {
	ts, ok := strings.CutPrefix(body, RootPrefix)
	if !ok {
		return time.Time{}, ErrUnexpectedBody
	}
	return time.Parse(TimestampLayout, strings.TrimSpace(ts))
}
