package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/errors"
	"github.com/seqctl/seqctl/internal/project"
)

func TestInitAndFind(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p, err := project.Init(root)
	require.NoError(t, err)
	assert.DirExists(t, p.TasksDir())
	assert.DirExists(t, p.LogsDir())
	assert.DirExists(t, p.StreamsDir())

	_, err = project.Init(root)
	assert.ErrorIs(t, err, errors.ErrProjectExists)

	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	found, err := project.Find(sub)
	require.NoError(t, err)
	assert.Equal(t, p.Root, found.Root)
}

func TestFindReturnsNotFound(t *testing.T) {
	t.Parallel()

	_, err := project.Find(t.TempDir())
	assert.ErrorIs(t, err, errors.ErrProjectNotFound)
}

func TestLoadConfigParsesJSONCWithComments(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p, err := project.Init(root)
	require.NoError(t, err)

	cfgBody := `{
  // default workflow for most tasks
  "workflows": {
    "default": {
      "steps": [
        {"name": "build", "run": "go build ./..."},
        {"name": "review"}, // gate
      ],
    },
  },
}`
	require.NoError(t, os.WriteFile(p.ConfigPath(), []byte(cfgBody), 0o600))

	cfg, err := project.LoadConfig(p)
	require.NoError(t, err)
	wf, err := cfg.Workflow("default")
	require.NoError(t, err)
	assert.Equal(t, 2, wf.Len())
	assert.Equal(t, "build", wf.Steps[0].Name)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p, err := project.Init(root)
	require.NoError(t, err)

	_, err = project.LoadConfig(p)
	assert.ErrorIs(t, err, errors.ErrConfigNotFound)
}

func TestParseTaskDefinitionRoundTrip(t *testing.T) {
	t.Parallel()

	raw := "---\nname: fix-bug\ndepends:\n  - setup\nskip:\n  - lint\n---\nFix the thing.\n"
	def, err := project.ParseTaskDefinition(raw)
	require.NoError(t, err)
	assert.Equal(t, "fix-bug", def.Name)
	assert.Equal(t, []string{"setup"}, def.Depends)
	assert.Equal(t, []string{"lint"}, def.Skip)
	assert.Equal(t, "Fix the thing.\n", def.Body)
}

func TestParseTaskDefinitionRejectsMissingDelimiter(t *testing.T) {
	t.Parallel()

	_, err := project.ParseTaskDefinition("name: fix-bug\n")
	assert.Error(t, err)
}

func TestSaveAndLoadTaskDefinition(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p, err := project.Init(root)
	require.NoError(t, err)

	def := domain.TaskDefinition{Name: "demo", Depends: []string{"a"}, Body: "notes\n"}
	require.NoError(t, project.SaveTaskDefinition(p, def))

	loaded, err := project.LoadTaskDefinition(p, "demo")
	require.NoError(t, err)
	assert.Equal(t, def.Name, loaded.Name)
	assert.Equal(t, def.Depends, loaded.Depends)
	assert.Equal(t, def.Body, loaded.Body)
}

func TestVarsExpand(t *testing.T) {
	t.Parallel()

	v := project.Vars{Task: "demo", Step: "build", StepIndex: 2}
	assert.Equal(t, "demo at build", v.Expand("${task} at ${step}"))
	assert.Contains(t, v.Env(), "SEQCTL_TASK=demo")
}
