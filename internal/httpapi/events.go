package httpapi

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/errors"
	"github.com/seqctl/seqctl/internal/project"
)

const maxEventsResponse = 200

type taggedEvent struct {
	Task string `json:"task"`
	domain.Event
}

// handleEvents answers GET /api/events?since=<ms>: every task's events
// newer than the given unix-millis timestamp, newest first, capped at
// maxEventsResponse. since defaults to 0 (all history) when absent.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	since, err := parseSince(r.URL.Query().Get("since"))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrInvalidArgument, err.Error()))
		return
	}

	names, err := project.ListTaskNames(s.project)
	if err != nil {
		writeError(w, err)
		return
	}

	var all []taggedEvent
	for _, name := range names {
		events, err := s.log.Read(name)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, e := range events {
			if e.Timestamp.After(since) {
				all = append(all, taggedEvent{Task: name, Event: e})
			}
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	if len(all) > maxEventsResponse {
		all = all[:maxEventsResponse]
	}

	writeJSON(w, http.StatusOK, all)
}

func parseSince(raw string) (time.Time, error) {
	if raw == "" {
		return time.Unix(0, 0), nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
