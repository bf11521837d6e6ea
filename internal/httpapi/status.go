package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/seqctl/seqctl/internal/statusview"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := statusview.List(r.Context(), s.project, s.config, s.log, s.viewport)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
