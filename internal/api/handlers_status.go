package api

import (
	"log"
	"net/http"

	"github.com/projecthelena/legacyapp/internal/logging"
	"github.com/projecthelena/legacyapp/internal/status"
)

type StatusHandler struct {
	clock  status.Clock
	logger *log.Logger
}

func NewStatusHandler(clock status.Clock, logger *log.Logger) *StatusHandler {
	if clock == nil {
		clock = status.SystemClock
	}
	if logger == nil {
		logger = logging.New("http")
	}
	return &StatusHandler{clock: clock, logger: logger}
}

// Root godoc
// @Summary Deployment status
// @Description Reports that the app is running, stamped with the time the request was served
// @Tags Status
// @Produce plain
// @Success 200 {string} string "This is deployment 12 !! Legacy Java App is running successfully! Deployed at: 2026-10-14T09:30:00.123456789Z"
// @Failure 500 {string} string "clock unavailable"
// @Failure 429 {object} map[string]string "rate limit exceeded"
// @Router / [get]
func (h *StatusHandler) Root(w http.ResponseWriter, r *http.Request) {
	resp, err := status.Root(h.clock)
	if err != nil {
		h.logger.Printf("root: %v", err)
		writeText(w, http.StatusInternalServerError, status.ErrClockUnavailable.Error())
		return
	}

	writeText(w, http.StatusOK, resp.String())
}
