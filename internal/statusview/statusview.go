// Package statusview builds the JSON-serializable task/workflow summaries
// shared by the CLI's `list`/`status` commands and the HTTP `/api/status`
// endpoint, so both surfaces replay and self-heal the same way.
package statusview

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/errors"
	"github.com/seqctl/seqctl/internal/eventlog"
	"github.com/seqctl/seqctl/internal/project"
	"github.com/seqctl/seqctl/internal/replay"
	"github.com/seqctl/seqctl/internal/viewport"
	"github.com/seqctl/seqctl/internal/waiter"
)

// maxConcurrentHealthChecks bounds how many tasks' viewport-loss health
// checks List runs at once; each issues at most one tmux round trip, so
// this is sized to be gentle on a shelled-out driver rather than the host.
const maxConcurrentHealthChecks = 8

// WorkflowView is the subset of a workflow's configuration surfaced to
// status consumers: its steps and the project's reserved hook bindings.
type WorkflowView struct {
	Steps []domain.Step     `json:"steps"`
	Hooks map[string]string `json:"hooks,omitempty"`
}

// TaskView is one task's replayed status plus the bookkeeping needed to
// decide what to do next: which dependencies are still outstanding, how
// many retries remain, and what remediation to suggest.
type TaskView struct {
	Name         string        `json:"name"`
	Workflow     string        `json:"workflow"`
	Status       domain.Status `json:"status"`
	RunID        string        `json:"run_id,omitempty"`
	CurrentStep  int           `json:"current_step"`
	TotalSteps   int           `json:"total_steps"`
	BlockedBy    []string      `json:"blocked_by,omitempty"`
	RetryCount   int           `json:"retry_count"`
	MaxRetries   int           `json:"max_retries"`
	LastFeedback string        `json:"last_feedback,omitempty"`
	Suggest      []string      `json:"suggest,omitempty"`
	Prompt       string        `json:"prompt,omitempty"`
}

// Response is the document shape returned by `seqctl list` and
// `GET /api/status`.
type Response struct {
	ProjectRoot string                  `json:"project_root"`
	Workflows   map[string]WorkflowView `json:"workflows"`
	Tasks       []TaskView              `json:"tasks"`
}

// Build produces a Task view for a single task definition, running the
// viewport-loss health check first so a Running status is never reported
// stale.
func Build(ctx context.Context, p project.Project, cfg project.Config, log *eventlog.Log, vp viewport.Driver, def domain.TaskDefinition) (TaskView, error) {
	wf, err := cfg.Workflow(def.Workflow)
	if err != nil {
		return TaskView{}, err
	}
	workflowName := def.Workflow
	if workflowName == "" {
		workflowName = "default"
	}

	if err := healAndRead(ctx, log, vp, def.Name, wf.Len()); err != nil {
		return TaskView{}, err
	}
	events, err := log.Read(def.Name)
	if err != nil {
		return TaskView{}, err
	}
	res := replay.Replay(events, wf.Len())

	view := TaskView{
		Name:       def.Name,
		Workflow:   workflowName,
		TotalSteps: wf.Len(),
		Prompt:     def.Body,
	}

	blocked, err := blockedBy(p, cfg, log, def)
	if err != nil {
		return TaskView{}, err
	}
	view.BlockedBy = blocked

	if res.State == nil {
		view.Status = domain.StatusPending
		if len(blocked) == 0 {
			view.Suggest = []string{fmt.Sprintf("seqctl start %s", def.Name)}
		}
		return view, nil
	}

	view.Status = res.State.Status
	view.RunID = res.State.RunID.String()
	view.CurrentStep = res.State.CurrentStep
	view.LastFeedback = res.State.Message
	view.RetryCount = res.RetryCount(res.State.CurrentStep)
	if step, ok := wf.StepAt(res.State.CurrentStep); ok {
		view.MaxRetries = step.EffectiveMaxRetries(wf.DefaultMaxRetries)
	}
	view.Suggest = suggestFor(def.Name, res.State.Status)
	return view, nil
}

// healAndRead runs the viewport-loss self-repair for task before the
// caller's own read, so a stale Running status is corrected in place
// rather than merely reported.
func healAndRead(ctx context.Context, log *eventlog.Log, vp viewport.Driver, task string, workflowLen int) error {
	events, err := log.Read(task)
	if err != nil {
		return err
	}
	res := replay.Replay(events, workflowLen)
	return waiter.CheckViewport(ctx, log, vp, viewport.NameFor(task), task, res)
}

func blockedBy(p project.Project, cfg project.Config, log *eventlog.Log, def domain.TaskDefinition) ([]string, error) {
	var blocked []string
	for _, dep := range def.Depends {
		events, err := log.Read(dep)
		if err != nil {
			return nil, err
		}
		// The dependency is replayed against its own workflow's length. When
		// its task definition or workflow cannot be loaded, the highest step
		// index its log references stands in, and a dependency whose last
		// recorded step closed successfully then counts as Completed.
		depLen := maxStepSeen(events) + 1
		if depDef, err := project.LoadTaskDefinition(p, dep); err == nil {
			if wf, err := cfg.Workflow(depDef.Workflow); err == nil {
				depLen = wf.Len()
			}
		}
		res := replay.Replay(events, depLen)
		if res.State == nil || res.State.Status != domain.StatusCompleted {
			blocked = append(blocked, dep)
		}
	}
	sort.Strings(blocked)
	return blocked, nil
}

// maxStepSeen returns the highest step index referenced by any event, used
// by blockedBy as a stand-in workflow length for a dependency whose own
// workflow cannot be loaded.
func maxStepSeen(events []domain.Event) int {
	highest := -1
	for _, e := range events {
		if idx := e.StepIndex(); idx > highest {
			highest = idx
		}
	}
	return highest
}

func suggestFor(task string, status domain.Status) []string {
	switch status {
	case domain.StatusWaiting:
		return []string{fmt.Sprintf("seqctl done %s", task), fmt.Sprintf("seqctl status %s", task)}
	case domain.StatusFailed:
		return []string{fmt.Sprintf("seqctl reset %s --step", task), fmt.Sprintf("seqctl log %s", task)}
	case domain.StatusStopped:
		return []string{fmt.Sprintf("seqctl start %s --reset", task)}
	case domain.StatusRunning:
		return []string{fmt.Sprintf("seqctl wait %s --until completed,failed", task)}
	default:
		return nil
	}
}

// List builds the full project status document: every task definition
// under tasks/, plus every configured workflow's steps and hooks.
func List(ctx context.Context, p project.Project, cfg project.Config, log *eventlog.Log, vp viewport.Driver) (Response, error) {
	names, err := project.ListTaskNames(p)
	if err != nil {
		return Response{}, err
	}

	resp := Response{
		ProjectRoot: p.Root,
		Workflows:   make(map[string]WorkflowView, len(cfg.Workflows)),
		Tasks:       make([]TaskView, 0, len(names)),
	}
	for name, wf := range cfg.Workflows {
		resp.Workflows[name] = WorkflowView{Steps: wf.Steps, Hooks: cfg.Hooks}
	}

	views := make([]TaskView, len(names))
	present := make([]bool, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentHealthChecks)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			def, err := project.LoadTaskDefinition(p, name)
			if err != nil {
				if errors.Classify(err) == errors.ClassNotFound {
					return nil
				}
				return err
			}
			def.Name = name
			view, err := Build(gctx, p, cfg, log, vp, def)
			if err != nil {
				return err
			}
			views[i], present[i] = view, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Response{}, err
	}
	for i, ok := range present {
		if ok {
			resp.Tasks = append(resp.Tasks, views[i])
		}
	}
	return resp, nil
}
