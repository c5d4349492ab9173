package api

import (
	"encoding/json"
	"net/http"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeServerError is the single failure path for page and API handlers:
// the error is logged with request context and the client receives a bare 500.
func (s *Server) writeServerError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.ForRequest(r.Context()).Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	w.WriteHeader(http.StatusInternalServerError)
}
