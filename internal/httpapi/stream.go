package httpapi

import (
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/seqctl/seqctl/internal/errors"
)

// handleStream answers GET /api/stream/{task}?offset=<bytes>: the raw byte
// range of the task's live stream file starting at offset, plus the new
// offset to poll from next. A missing stream file (no step has written to
// it yet) is reported as zero bytes at the same offset, not a 404.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	task := chi.URLParam(r, "task")
	offset, err := parseOffset(r.URL.Query().Get("offset"))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrInvalidArgument, err.Error()))
		return
	}

	path := s.project.StreamPath(task)
	f, err := os.Open(path) //#nosec G304 -- path constructed from project root and chi-routed task name
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusOK, streamResponse{Offset: offset, Data: ""})
			return
		}
		writeError(w, err)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		writeError(w, err)
		return
	}
	if offset >= info.Size() {
		writeJSON(w, http.StatusOK, streamResponse{Offset: offset, Data: ""})
		return
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		writeError(w, err)
		return
	}
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, streamResponse{
		Offset: offset + int64(len(data)),
		Data:   string(data),
	})
}

type streamResponse struct {
	Offset int64  `json:"offset"`
	Data   string `json:"data"`
}

func parseOffset(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
