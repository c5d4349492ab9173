package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// searchRequest is the body of POST /api/search.
type searchRequest struct {
	Q string `json:"q"`
}

// handleIndex renders the map page with every location inlined.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	fc, err := s.directory.FeatureCollection(r.Context())
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := s.page.RenderIndex(&buf, fc); err != nil {
		s.writeServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w) //nolint:errcheck // Best-effort write to response
}

// handleLocationDetail returns one location with its meetings and hours.
func (s *Server) handleLocationDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.directory.Detail(r.Context(), chi.URLParam(r, "locationID"))
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// handleSearch runs a natural-language search. A body that cannot be
// decoded leaves q empty, which matches every location.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.ForRequest(r.Context()).Debug("search body not decoded, using empty query", "error", err)
		req = searchRequest{}
	}

	result, err := s.search.Search(r.Context(), req.Q)
	if err != nil {
		s.writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
