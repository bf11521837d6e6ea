// Package workflow drives a task from its current replayed state to the
// next suspension point: a closed step, a yield, or a terminal status.
// Each CLI invocation runs the loop until it returns.
package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/seqctl/seqctl/internal/clock"
	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/errors"
	"github.com/seqctl/seqctl/internal/eventlog"
	"github.com/seqctl/seqctl/internal/executor"
	"github.com/seqctl/seqctl/internal/project"
	"github.com/seqctl/seqctl/internal/replay"
	"github.com/seqctl/seqctl/internal/settle"
	"github.com/seqctl/seqctl/internal/verifier"
	"github.com/seqctl/seqctl/internal/viewport"
)

// Driver resumes tasks against a project's event log, workflow set, and
// viewport backend.
type Driver struct {
	Log      *eventlog.Log
	Viewport viewport.Driver
	Clock    clock.Clock
	Settle   settle.Pipeline

	// Project locates the task's log/definition files for the ${log_file}
	// and ${task_file} step variables. Zero-valued when unset, in which
	// case those variables expand to the empty string.
	Project project.Project
}

// New returns a Driver wired to the given event log and viewport backend,
// using the real system clock.
func New(log *eventlog.Log, vp viewport.Driver) Driver {
	return Driver{Log: log, Viewport: vp, Clock: clock.RealClock{}, Settle: settle.New(log)}
}

// WithProject attaches the project root so step variable expansion can
// populate ${log_file} and ${task_file}.
func (d Driver) WithProject(p project.Project) Driver {
	d.Project = p
	return d
}

// DependenciesSatisfied reports whether every task in depends has reached
// Completed, consulting each dependency's own event log.
func (d Driver) DependenciesSatisfied(workflows map[string]domain.Workflow, workflowOf map[string]string, depends []string) (bool, error) {
	for _, dep := range depends {
		events, err := d.Log.Read(dep)
		if err != nil {
			return false, err
		}
		wf := workflows[workflowOf[dep]]
		res := replay.Replay(events, wf.Len())
		if res.State == nil || res.State.Status != domain.StatusCompleted {
			return false, nil
		}
	}
	return true, nil
}

// Start begins a task: validates dependencies, then appends task_started
// (preceded by task_reset if reset is true) and runs the resume loop.
func (d Driver) Start(ctx context.Context, task string, wf domain.Workflow, def domain.TaskDefinition, workflows map[string]domain.Workflow, workflowOf map[string]string, reset bool) error {
	events, err := d.Log.Read(task)
	if err != nil {
		return err
	}
	res := replay.Replay(events, wf.Len())
	if !reset && res.State != nil {
		return errors.ErrTaskAlreadyRunning
	}

	ok, err := d.DependenciesSatisfied(workflows, workflowOf, def.Depends)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrDependenciesUnmet
	}

	now := d.Clock.Now().UTC()
	runID := uuid.New()
	if reset {
		if err := d.Log.AppendAll(ctx, task, domain.NewTaskReset(now), domain.NewTaskStarted(now, runID)); err != nil {
			return err
		}
	} else {
		if err := d.Log.Append(ctx, task, domain.NewTaskStarted(now, runID)); err != nil {
			return err
		}
	}

	return d.Resume(ctx, task, wf, def)
}

// Resume replays task, then advances it through as many steps as it can
// before hitting a suspension point (gate, yield, viewport dispatch, or
// terminal status).
func (d Driver) Resume(ctx context.Context, task string, wf domain.Workflow, def domain.TaskDefinition) error {
	for {
		events, err := d.Log.Read(task)
		if err != nil {
			return err
		}
		res := replay.Replay(events, wf.Len())
		if res.State == nil {
			return errors.ErrTaskNotStarted
		}
		if res.State.Status.Terminal() {
			return nil
		}
		if res.State.Status == domain.StatusWaiting {
			return nil
		}

		cont, err := d.step(ctx, task, wf, def, res)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

func (d Driver) step(ctx context.Context, task string, wf domain.Workflow, def domain.TaskDefinition, res replay.Result) (bool, error) {
	stepIdx := res.State.CurrentStep

	if contains(def.Skip, stepName(wf, stepIdx)) {
		now := d.Clock.Now().UTC()
		if err := d.Log.Append(ctx, task, domain.NewStepSkipped(now, stepIdx)); err != nil {
			return false, err
		}
		return true, nil
	}

	step, ok := wf.StepAt(stepIdx)
	if !ok {
		return false, fmt.Errorf("step index %d out of range: %w", stepIdx, errors.ErrInvalidWorkflow)
	}

	if step.IsGate() {
		now := d.Clock.Now().UTC()
		return false, d.Log.Append(ctx, task, domain.NewStepYielded(now, stepIdx, domain.ReasonGate))
	}

	vars := project.Vars{Task: task, Step: step.Name, StepIndex: stepIdx, RetryCount: res.RetryCount(stepIdx)}
	workDir := "."
	if d.Project.Root != "" {
		vars.RepoRoot = d.Project.Root
		vars.LogFile = d.Log.Path(task)
		vars.TaskFile = d.Project.TaskDefinitionPath(task)
		workDir = d.Project.Root
	}
	command := vars.Expand(step.Run)

	if step.InViewport {
		if !executor.InViewport(task) {
			return d.dispatchViewport(ctx, task, stepIdx, workDir)
		}
		record, err := executor.RunResident(ctx, task, command, workDir, vars.Env())
		if err != nil {
			return false, err
		}

		// Another process may have already settled this step while the
		// resident command ran (e.g. an explicit `done`); re-read before
		// committing a settlement of our own.
		events, err := d.Log.Read(task)
		if err != nil {
			return false, err
		}
		fresh := replay.Replay(events, wf.Len())
		if fresh.State == nil || !executor.ReadyToSettle(fresh.State.Status, fresh.State.CurrentStep, stepIdx) {
			return false, nil
		}
		return d.settleRecord(ctx, task, wf, step, stepIdx, fresh, record, vars, workDir)
	}

	streamPath := ""
	if d.Project.Root != "" {
		streamPath = d.Project.StreamPath(task)
	}
	record, err := executor.RunSynchronous(ctx, command, workDir, vars.Env(), streamPath)
	if err != nil {
		return false, err
	}

	return d.settleRecord(ctx, task, wf, step, stepIdx, res, record, vars, workDir)
}

func (d Driver) settleRecord(ctx context.Context, task string, wf domain.Workflow, step domain.Step, stepIdx int, res replay.Result, record domain.StepRecord, vars project.Vars, workDir string) (bool, error) {
	verify, feedback, err := verifier.Verify(ctx, step.Verify, workDir, vars.Env())
	if err != nil {
		return false, err
	}
	return d.Settle.Settle(ctx, task, wf.Len(), stepIdx, onFailOf(step), step.EffectiveMaxRetries(wf.DefaultMaxRetries), record, verify, feedback)
}

// dispatchViewport opens the task's viewport and sends a re-entry into
// seqctl's own "_run" internal command for this (task, step) pair; the
// resident process that picks that up runs the actual step command.
func (d Driver) dispatchViewport(ctx context.Context, task string, stepIdx int, workDir string) (bool, error) {
	name := viewport.NameFor(task)
	if err := d.Viewport.Open(ctx, name, workDir); err != nil {
		return false, err
	}
	reentry := fmt.Sprintf("%s=%s seqctl _run %s %d", executor.InViewportEnvVar, task, task, stepIdx)
	if err := d.Viewport.Send(ctx, name, reentry); err != nil {
		return false, err
	}
	now := d.Clock.Now().UTC()
	return false, d.Log.Append(ctx, task, domain.NewViewportLaunched(now, stepIdx))
}

func onFailOf(step domain.Step) domain.OnFail {
	return step.OnFail
}

func stepName(wf domain.Workflow, idx int) string {
	if s, ok := wf.StepAt(idx); ok {
		return s.Name
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Stop appends task_stopped, interrupting the task's viewport first if it
// has one open.
func (d Driver) Stop(ctx context.Context, task string, wf domain.Workflow) error {
	events, err := d.Log.Read(task)
	if err != nil {
		return err
	}
	res := replay.Replay(events, wf.Len())
	if res.State == nil || (res.State.Status != domain.StatusRunning && res.State.Status != domain.StatusWaiting) {
		return errors.ErrTaskNotRunning
	}

	if res.OpenViewport >= 0 {
		name := viewport.NameFor(task)
		if exists, _ := d.Viewport.Exists(ctx, name); exists {
			_ = d.Viewport.Send(ctx, name, "\x03")
		}
	}

	now := d.Clock.Now().UTC()
	return d.Log.Append(ctx, task, domain.NewTaskStopped(now, res.State.CurrentStep))
}

// Done resolves a waiting task: approves a gate or verify_manual yield
// (advancing), or retries an on_fail_manual yield.
func (d Driver) Done(ctx context.Context, task string, wf domain.Workflow, def domain.TaskDefinition, message string) error {
	events, err := d.Log.Read(task)
	if err != nil {
		return err
	}
	res := replay.Replay(events, wf.Len())
	if res.State == nil || res.State.Status != domain.StatusWaiting {
		return errors.ErrTaskNotRunning
	}

	now := d.Clock.Now().UTC()
	ev := domain.NewStepResumed(now, res.State.CurrentStep)
	ev.Message = message
	if err := d.Log.Append(ctx, task, ev); err != nil {
		return err
	}

	return d.Resume(ctx, task, wf, def)
}

// ResetStep retries the current step (step_reset, auto=false) without
// touching earlier step history, then resumes.
func (d Driver) ResetStep(ctx context.Context, task string, wf domain.Workflow, def domain.TaskDefinition) error {
	events, err := d.Log.Read(task)
	if err != nil {
		return err
	}
	res := replay.Replay(events, wf.Len())
	if res.State == nil {
		return errors.ErrTaskNotStarted
	}

	now := d.Clock.Now().UTC()
	if err := d.Log.Append(ctx, task, domain.NewStepReset(now, res.State.CurrentStep, false)); err != nil {
		return err
	}
	return d.Resume(ctx, task, wf, def)
}

// ResetFull discards all prior history for task via task_reset, leaving
// it Pending.
func (d Driver) ResetFull(ctx context.Context, task string) error {
	return d.Log.Append(ctx, task, domain.NewTaskReset(d.Clock.Now().UTC()))
}
