package server

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the error envelope for every JSON error.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes data as JSON with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("[server] JSON encode error: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}
