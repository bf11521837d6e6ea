package domain

import (
	"fmt"

	"github.com/seqctl/seqctl/internal/errors"
)

// Step is one node of a workflow. A Step with an empty Run is a gate: it
// only advances on an external done.
type Step struct {
	Name       string `json:"name"`
	Run        string `json:"run,omitempty"`
	Verify     string `json:"verify,omitempty"`
	OnFail     OnFail `json:"on_fail,omitempty"`
	InViewport bool   `json:"in_viewport,omitempty"`
	MaxRetries *int   `json:"max_retries,omitempty"`
}

// IsGate reports whether the step has no run command.
func (s Step) IsGate() bool {
	return s.Run == ""
}

// VerifyIsHuman reports whether the step's verify is the human gate sentinel.
func (s Step) VerifyIsHuman() bool {
	return s.Verify == "human"
}

// EffectiveMaxRetries resolves the step's retry budget, falling back to the
// workflow default when the step does not override it.
func (s Step) EffectiveMaxRetries(workflowDefault int) int {
	if s.MaxRetries != nil {
		return *s.MaxRetries
	}
	return workflowDefault
}

// Workflow is an ordered, named sequence of steps loaded once per project.
type Workflow struct {
	Name              string `json:"name"`
	Steps             []Step `json:"steps"`
	DefaultMaxRetries int    `json:"default_max_retries,omitempty"`
}

// Len returns the number of steps, the value replay compares current_step
// against to detect completion.
func (w Workflow) Len() int {
	return len(w.Steps)
}

// StepAt returns the step at idx, or the zero Step and false if idx is out
// of range.
func (w Workflow) StepAt(idx int) (Step, bool) {
	if idx < 0 || idx >= len(w.Steps) {
		return Step{}, false
	}
	return w.Steps[idx], true
}

// IndexOf returns the 0-based index of the named step, or -1.
func (w Workflow) IndexOf(name string) int {
	for i, s := range w.Steps {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// Validate enforces the invariants a workflow must satisfy before it can
// drive a task: unique step names, non-negative retry budgets, and on_fail
// values drawn from the known policy set.
func (w Workflow) Validate() error {
	if len(w.Steps) == 0 {
		return errors.Wrap(errors.ErrInvalidWorkflow, "workflow has no steps")
	}
	seen := make(map[string]bool, len(w.Steps))
	for i, s := range w.Steps {
		if s.Name == "" {
			return errors.Wrapf(errors.ErrInvalidWorkflow, "step %d has no name", i)
		}
		if seen[s.Name] {
			return errors.Wrapf(errors.ErrInvalidWorkflow, "duplicate step name %q", s.Name)
		}
		seen[s.Name] = true

		if s.MaxRetries != nil && *s.MaxRetries < 0 {
			return errors.Wrapf(errors.ErrInvalidWorkflow, "step %q has negative max_retries", s.Name)
		}
		switch s.OnFail {
		case "", OnFailRetry, OnFailHuman:
		default:
			return errors.Wrapf(errors.ErrInvalidWorkflow, "step %q has unknown on_fail %q", s.Name, s.OnFail)
		}
		if s.IsGate() && s.Verify != "" {
			return errors.Wrapf(errors.ErrInvalidWorkflow, "gate step %q cannot declare verify", s.Name)
		}
	}
	if w.DefaultMaxRetries < 0 {
		return errors.Wrap(errors.ErrInvalidWorkflow, "default_max_retries cannot be negative")
	}
	return nil
}

// ValidateSkipList checks that every name in skip refers to a real step,
// called against a task definition's skip list at load time.
func (w Workflow) ValidateSkipList(skip []string) error {
	for _, name := range skip {
		if w.IndexOf(name) < 0 {
			return fmt.Errorf("%w: skip references unknown step %q", errors.ErrInvalidTaskDefinition, name)
		}
	}
	return nil
}
