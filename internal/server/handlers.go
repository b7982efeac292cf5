package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:   "healthy",
		Service:  "esgscreen",
		Database: "disabled",
	}

	if s.container != nil && s.container.ClientDataDB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.container.ClientDataDB.QuickCheck(ctx); err != nil {
			s.log.Warn().Err(err).Msg("Health check: client_data database unreachable")
			response.Status = "degraded"
			response.Database = "unreachable"
			s.writeJSON(w, http.StatusServiceUnavailable, response)
			return
		}
		response.Database = "ok"
	}

	s.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
