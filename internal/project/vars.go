package project

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/seqctl/seqctl/internal/constants"
)

// Vars is the variable context exposed to a step's run/verify commands,
// both as ${name} substitutions and as SEQCTL_<NAME> environment
// variables.
type Vars struct {
	Task             string
	Branch           string
	Worktree         string
	Session          string
	RepoRoot         string
	Step             string
	StepIndex        int
	BaseBranch       string
	LogFile          string
	TaskFile         string
	RetryCount       int
	LastVerifyOutput string
}

// Map returns the ${name} -> value table used for command substitution.
func (v Vars) Map() map[string]string {
	return map[string]string{
		"task":               v.Task,
		"branch":             v.Branch,
		"worktree":           v.Worktree,
		"session":            v.Session,
		"repo_root":          v.RepoRoot,
		"project_root":       v.RepoRoot,
		"step":               v.Step,
		"step_index":         strconv.Itoa(v.StepIndex),
		"base_branch":        v.BaseBranch,
		"log_file":           v.LogFile,
		"task_file":          v.TaskFile,
		"retry_count":        strconv.Itoa(v.RetryCount),
		"last_verify_output": v.LastVerifyOutput,
	}
}

// Env returns the Map entries as SEQCTL_<NAME>=<value> strings, appended
// on top of the current process environment, the form handed to
// exec.Cmd.Env for both the synchronous and viewport executors.
func (v Vars) Env() []string {
	env := os.Environ()
	for k, val := range v.Map() {
		env = append(env, fmt.Sprintf("%s_%s=%s", constants.EnvPrefix, strings.ToUpper(k), val))
	}
	return env
}

// Expand substitutes ${name} references in command with the corresponding
// value from Map, leaving unrecognized names untouched.
func (v Vars) Expand(command string) string {
	vars := v.Map()
	return os.Expand(command, func(name string) string {
		if val, ok := vars[name]; ok {
			return val
		}
		return "${" + name + "}"
	})
}
