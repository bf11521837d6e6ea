// Package project owns the on-disk layout of a seqctl project: locating
// its root, loading its workflow configuration, and loading individual
// task definitions.
package project

import (
	"os"
	"path/filepath"

	"github.com/seqctl/seqctl/internal/constants"
	"github.com/seqctl/seqctl/internal/errors"
)

// Project is a resolved seqctl project rooted at Root, with SeqctlDir the
// absolute path to its .seqctl directory.
type Project struct {
	Root       string
	SeqctlDir  string
}

// ConfigPath returns the path to config.jsonc.
func (p Project) ConfigPath() string {
	return filepath.Join(p.SeqctlDir, constants.ConfigFileName)
}

// TasksDir returns the path to the tasks directory.
func (p Project) TasksDir() string {
	return filepath.Join(p.SeqctlDir, constants.TasksDir)
}

// LogsDir returns the path to the event log directory.
func (p Project) LogsDir() string {
	return filepath.Join(p.SeqctlDir, constants.LogsDir)
}

// StreamsDir returns the path to the live-stream directory.
func (p Project) StreamsDir() string {
	return filepath.Join(p.SeqctlDir, constants.StreamsDir)
}

// TaskDefinitionPath returns the path to a task's definition file.
func (p Project) TaskDefinitionPath(name string) string {
	return filepath.Join(p.TasksDir(), name+".md")
}

// StreamPath returns the path to a task's live stdout stream file.
func (p Project) StreamPath(name string) string {
	return filepath.Join(p.StreamsDir(), name+".log")
}

// Find walks upward from startDir looking for a .seqctl directory,
// mirroring the git-root-walk idiom used to locate a repository from any
// subdirectory. Returns ErrProjectNotFound if no ancestor has one.
func Find(startDir string) (Project, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Project{}, err
	}
	for {
		candidate := filepath.Join(dir, constants.ProjectDir)
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
			return Project{Root: dir, SeqctlDir: candidate}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Project{}, errors.ErrProjectNotFound
		}
		dir = parent
	}
}

// Init creates a new project skeleton rooted at dir. It fails with
// ErrProjectExists if .seqctl already exists there.
func Init(dir string) (Project, error) {
	seqctlDir := filepath.Join(dir, constants.ProjectDir)
	if _, err := os.Stat(seqctlDir); err == nil {
		return Project{}, errors.ErrProjectExists
	}

	p := Project{Root: dir, SeqctlDir: seqctlDir}
	for _, d := range []string{p.SeqctlDir, p.TasksDir(), p.LogsDir(), p.StreamsDir()} {
		if err := os.MkdirAll(d, constants.DirPerm); err != nil {
			return Project{}, err
		}
	}
	return p, nil
}
