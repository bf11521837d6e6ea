package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes args against a fresh root command scoped to projectDir and
// returns its captured stdout.
func run(t *testing.T, projectDir string, args ...string) string {
	t.Helper()
	flags := &GlobalFlags{}
	root := newRootCmd(flags, BuildInfo{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--project", projectDir}, args...))
	err := root.ExecuteContext(context.Background())
	require.NoError(t, err, "output: %s", out.String())
	return out.String()
}

// runErr is like run but returns the command's error instead of requiring
// success; whatever the command wrote is discarded.
func runErr(t *testing.T, projectDir string, args ...string) error {
	t.Helper()
	flags := &GlobalFlags{}
	root := newRootCmd(flags, BuildInfo{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--project", projectDir}, args...))
	return root.ExecuteContext(context.Background())
}

func TestInitCreatesProjectSkeleton(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	out := run(t, dir, "init")
	var result map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, dir, result["project_root"])
}

func TestInitTwiceFails(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	run(t, dir, "init")
	err := runErr(t, dir, "init")
	require.Error(t, err)
	assert.Equal(t, 5, ExitCodeForError(err))
}

func TestCreateAndListRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	run(t, dir, "init")
	run(t, dir, "create", "demo")

	out := run(t, dir, "list")
	var resp map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	tasks, ok := resp["tasks"].([]any)
	require.True(t, ok)
	require.Len(t, tasks, 1)
}

func TestCreateInvalidNameFails(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	run(t, dir, "init")
	err := runErr(t, dir, "create", "")
	require.Error(t, err)
}

func TestStartThenStatusThenDone(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	run(t, dir, "init")
	run(t, dir, "create", "demo")
	run(t, dir, "start", "demo")

	out := run(t, dir, "status", "demo")
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "waiting", view["status"])

	out = run(t, dir, "done", "demo", "-m", "looks good")
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "completed", view["status"])
}

func TestStartAlreadyRunningFails(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	run(t, dir, "init")
	run(t, dir, "create", "demo")
	run(t, dir, "start", "demo")

	err := runErr(t, dir, "start", "demo")
	require.Error(t, err)
	assert.Equal(t, 2, ExitCodeForError(err))
}

func TestStartWithUnmetDependencyFails(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	run(t, dir, "init")
	run(t, dir, "create", "base")
	run(t, dir, "create", "demo", "--depends", "base")

	err := runErr(t, dir, "start", "demo")
	require.Error(t, err)
	assert.Equal(t, 3, ExitCodeForError(err))
}

func TestWaitTimesOutOnPendingTask(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	run(t, dir, "init")
	run(t, dir, "create", "demo")

	err := runErr(t, dir, "wait", "demo", "--until", "completed,failed", "--timeout", "20ms", "--interval", "5ms")
	require.Error(t, err)
	assert.Equal(t, 7, ExitCodeForError(err))
}

func TestWaitMatchesImmediatelyOnCompletedTask(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	run(t, dir, "init")
	run(t, dir, "create", "demo")
	run(t, dir, "start", "demo")
	run(t, dir, "done", "demo")

	out := run(t, dir, "wait", "demo", "--until", "completed", "--timeout", "1s", "--interval", "5ms")
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "match", result["outcome"])
}

func TestResetFullReturnsToPending(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	run(t, dir, "init")
	run(t, dir, "create", "demo")
	run(t, dir, "start", "demo")
	run(t, dir, "done", "demo")

	out := run(t, dir, "reset", "demo")
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "pending", view["status"])
}

func TestLogPrintsJSONLEvents(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	run(t, dir, "init")
	run(t, dir, "create", "demo")
	run(t, dir, "start", "demo")

	out := run(t, dir, "log", "demo")
	lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
	assert.GreaterOrEqual(t, len(lines), 1)
	var ev map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &ev))
	assert.Equal(t, "task_started", ev["type"])
}

func TestValidateReportsSuccess(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	run(t, dir, "init")
	run(t, dir, "create", "demo")

	out := run(t, dir, "validate")
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, true, result["ok"])
}

func TestValidateCatchesDanglingDependency(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	run(t, dir, "init")
	run(t, dir, "create", "demo", "--depends", "ghost")

	err := runErr(t, dir, "validate")
	require.Error(t, err)
}

func TestStatusOnMissingTaskIsNotFound(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	run(t, dir, "init")
	err := runErr(t, dir, "status", "ghost")
	require.Error(t, err)
	assert.Equal(t, 4, ExitCodeForError(err))
}
