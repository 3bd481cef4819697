package api

import (
	"net/http"

	"github.com/projecthelena/legacyapp/internal/status"
)

// Health godoc
// @Summary Health check
// @Description Liveness probe for orchestrators and load balancers
// @Tags Health
// @Produce json
// @Success 200 {object} status.HealthResponse
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, status.Health())
}
