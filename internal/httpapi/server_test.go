package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/eventlog"
	"github.com/seqctl/seqctl/internal/httpapi"
	"github.com/seqctl/seqctl/internal/project"
	"github.com/seqctl/seqctl/internal/viewport"
)

func zeroLogger() zerolog.Logger {
	return zerolog.Nop()
}

func setup(t *testing.T) *httptest.Server {
	t.Helper()
	root := t.TempDir()
	p, err := project.Init(root)
	require.NoError(t, err)

	cfg := project.Config{Workflows: map[string]domain.Workflow{
		"default": {Name: "default", Steps: []domain.Step{{Name: "build", Run: "true"}}},
	}}
	require.NoError(t, project.SaveTaskDefinition(p, domain.TaskDefinition{Name: "demo"}))

	log := eventlog.New(p.LogsDir())
	require.NoError(t, log.Append(context.Background(), "demo",
		domain.NewTaskStarted(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), uuid.New())))

	srv := httpapi.New(p, cfg, log, viewport.NewFakeDriver(), zeroLogger(), "")
	return httptest.NewServer(srv.Handler())
}

func TestHandleStatus(t *testing.T) {
	t.Parallel()
	ts := setup(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/status")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	tasks, _ := body["tasks"].([]any)
	require.Len(t, tasks, 1)
}

func TestHandleEventsSince(t *testing.T) {
	t.Parallel()
	ts := setup(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/events?since=0")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var events []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, "demo", events[0]["task"])
}

func TestHandleStreamMissingFileReturnsEmptyData(t *testing.T) {
	t.Parallel()
	ts := setup(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/stream/demo?offset=0")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "", body["data"])
}
