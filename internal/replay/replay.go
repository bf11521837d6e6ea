// Package replay reconstructs task state from an event log. Replay is a
// pure function of its inputs: the same events and workflow length always
// produce the same TaskState, and nothing here touches the filesystem.
package replay

import (
	"github.com/seqctl/seqctl/internal/domain"
)

// Result bundles the replayed state (nil if the task has never started)
// together with bookkeeping the settlement pipeline and waiter need but
// that is not part of the public TaskState projection.
type Result struct {
	State *domain.TaskState

	// RetryCounts tracks, per step index, how many auto-retries have been
	// recorded since the current run's task_started.
	RetryCounts domain.RetryCounts

	// OpenViewport is the step index of the most recent viewport_launched
	// not yet followed by a settling event, or -1 if none is open.
	OpenViewport int
}

// Replay folds events into a TaskState. workflowLen is the number of steps
// in the task's workflow, used only for the terminal-state promotion that
// runs after the fold. A task with no task_started since its last
// task_reset has no state: Replay returns a nil Result.State.
func Replay(events []domain.Event, workflowLen int) Result {
	var acc *domain.TaskState
	retries := domain.RetryCounts{}
	openViewport := -1

	for _, e := range events {
		switch e.Type {
		case domain.EventTaskReset:
			acc = nil
			retries = domain.RetryCounts{}
			openViewport = -1

		case domain.EventTaskStarted:
			acc = &domain.TaskState{
				CurrentStep: 0,
				Status:      domain.StatusRunning,
				StepStatus:  map[int]domain.StepStatus{},
				RunID:       e.RunID,
				StartedAt:   e.Timestamp,
				UpdatedAt:   e.Timestamp,
			}
			retries = domain.RetryCounts{}
			openViewport = -1

		default:
			if acc == nil {
				// Events recorded before the most recent task_started (or
				// with no task_started at all since the last task_reset)
				// are visible to history consumers but do not mutate state.
				continue
			}
			applyEvent(acc, retries, &openViewport, e)
		}
	}

	if acc == nil {
		return Result{State: nil, RetryCounts: retries, OpenViewport: openViewport}
	}

	if acc.Status == domain.StatusRunning && acc.CurrentStep >= workflowLen {
		acc.Status = domain.StatusCompleted
	}

	return Result{State: acc, RetryCounts: retries, OpenViewport: openViewport}
}

func applyEvent(acc *domain.TaskState, retries domain.RetryCounts, openViewport *int, e domain.Event) {
	acc.UpdatedAt = e.Timestamp

	switch e.Type {
	case domain.EventStepFinished:
		step := e.StepIndex()
		*openViewport = closeIfOpen(*openViewport, step)
		if e.IsSuccess() {
			acc.StepStatus[step] = domain.StepSuccess
			acc.CurrentStep = step + 1
			acc.Status = domain.StatusRunning
			acc.Message = ""
		} else {
			acc.StepStatus[step] = domain.StepFailed
			acc.Status = domain.StatusFailed
			acc.Message = e.Stderr
		}

	case domain.EventStepYielded:
		step := e.StepIndex()
		*openViewport = closeIfOpen(*openViewport, step)
		acc.Status = domain.StatusWaiting
		acc.LastYieldReason = e.Reason
		acc.Message = e.Message

	case domain.EventStepResumed:
		step := e.StepIndex()
		switch acc.LastYieldReason {
		case domain.ReasonOnFailManual:
			acc.Status = domain.StatusRunning
			acc.Message = ""
		default: // gate, verify_manual
			acc.StepStatus[step] = domain.StepSuccess
			acc.CurrentStep = step + 1
			acc.Status = domain.StatusRunning
			acc.Message = ""
		}
		acc.LastYieldReason = ""

	case domain.EventStepSkipped:
		step := e.StepIndex()
		acc.StepStatus[step] = domain.StepSkipped
		acc.CurrentStep = step + 1
		acc.Status = domain.StatusRunning

	case domain.EventStepReset:
		step := e.StepIndex()
		acc.CurrentStep = step
		delete(acc.StepStatus, step)
		acc.Status = domain.StatusRunning
		acc.Message = ""
		acc.LastYieldReason = ""
		if e.IsAuto() {
			retries[step]++
		}

	case domain.EventViewportLaunched:
		*openViewport = e.StepIndex()

	case domain.EventViewportLost:
		step := e.StepIndex()
		*openViewport = closeIfOpen(*openViewport, step)
		acc.StepStatus[step] = domain.StepFailed
		acc.Status = domain.StatusFailed
		acc.Message = "viewport lost"

	case domain.EventTaskStopped:
		acc.Status = domain.StatusStopped

	case domain.EventVerifyFailed:
		step := e.StepIndex()
		acc.StepStatus[step] = domain.StepFailed
		acc.Status = domain.StatusFailed
		acc.Message = e.Feedback
	}
}

func closeIfOpen(open, step int) int {
	if open == step {
		return -1
	}
	return open
}

// RetryCount returns how many auto-retries step has accumulated in the
// current run, for use by the settlement pipeline's decide phase.
func (r Result) RetryCount(step int) int {
	return r.RetryCounts[step]
}
