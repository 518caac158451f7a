package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Health handles GET /health requests
// @Summary Health probe
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func Health(now func() time.Time, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		SendJSONResponse(w, logger, http.StatusOK, HealthResponse{
			Status:    "OK",
			Timestamp: now().UTC().Format(time.RFC3339Nano),
		})
	}
}
