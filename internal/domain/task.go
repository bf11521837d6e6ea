package domain

import (
	"regexp"

	"github.com/seqctl/seqctl/internal/errors"
)

// taskNamePattern mirrors the naming rules git branches and tmux session
// names both tolerate, since a task name seeds both a viewport name and a
// file name under tasks/ and logs/.
var taskNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// ValidateTaskName rejects empty names, path traversal, and characters
// that would be unsafe as a file name or tmux session name.
func ValidateTaskName(name string) error {
	if name == "" || !taskNamePattern.MatchString(name) {
		return errors.Wrapf(errors.ErrInvalidTaskName, "%q", name)
	}
	return nil
}

// TaskDefinition is the declarative, per-task configuration loaded from
// tasks/<name>.md frontmatter. It is immutable across runs of the same
// task; re-running never rewrites it.
type TaskDefinition struct {
	Name     string   `yaml:"name"`
	Workflow string   `yaml:"workflow,omitempty"`
	Depends  []string `yaml:"depends,omitempty"`
	Skip     []string `yaml:"skip,omitempty"`

	// Body is the free-form markdown following the frontmatter delimiter,
	// surfaced to steps as the task_file / prompt variable.
	Body string `yaml:"-"`
}
