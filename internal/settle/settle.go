// Package settle implements the settlement pipeline that turns a step's
// raw outcome into the event(s) that advance, retry, yield, or fail a
// task. combine and decide (domain.Combine, domain.Decide) are pure; this
// package supplies apply, which is the only place events are written.
package settle

import (
	"context"

	"github.com/seqctl/seqctl/internal/clock"
	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/eventlog"
	"github.com/seqctl/seqctl/internal/replay"
)

// Log is the subset of eventlog.Log the settlement pipeline needs,
// narrowed so tests can supply a fake without a real filesystem.
type Log interface {
	Append(ctx context.Context, task string, event domain.Event) error
	Read(task string) ([]domain.Event, error)
}

var _ Log = (*eventlog.Log)(nil)

// Pipeline runs the settlement pipeline against a task's event log.
type Pipeline struct {
	Log   Log
	Clock clock.Clock
}

// New returns a Pipeline backed by log, using the real system clock.
func New(log Log) Pipeline {
	return Pipeline{Log: log, Clock: clock.RealClock{}}
}

// Settle runs combine -> decide -> apply for one step outcome and reports
// whether the workflow driver should continue its loop (true) or stop and
// return control to the caller (false, e.g. Waiting or a terminal state).
//
// Before apply, the log tail is re-read: if it already contains a
// settling event for stepIdx since the run started, apply is skipped and
// Settle returns based on that existing event instead of writing a
// duplicate. This makes double-settlement (two processes racing to settle
// the same step) a no-op without a cross-process lock.
func (p Pipeline) Settle(ctx context.Context, task string, workflowLen, stepIdx int, onFail domain.OnFail, maxRetries int, record domain.StepRecord, verify domain.VerifyResult, feedback string) (bool, error) {
	events, err := p.Log.Read(task)
	if err != nil {
		return false, err
	}
	res := replay.Replay(events, workflowLen)
	if alreadySettled(res, stepIdx) {
		return res.State != nil && res.State.Status == domain.StatusRunning, nil
	}

	outcome := domain.Combine(record, verify, feedback)
	verdict := domain.Decide(outcome, onFail, res.RetryCount(stepIdx), maxRetries)

	now := p.Clock.Now().UTC()
	switch verdict.Kind {
	case domain.VerdictAdvance:
		ev := domain.NewStepFinished(now, stepIdx, verdict.Outcome.ExitCode, true, record.Duration, record.Stdout, record.Stderr)
		if err := p.Log.Append(ctx, task, ev); err != nil {
			return false, err
		}
		return true, nil

	case domain.VerdictRetryAuto:
		finished := domain.NewStepFinished(now, stepIdx, verdict.Outcome.ExitCode, false, record.Duration, record.Stdout, record.Stderr)
		if err := p.Log.Append(ctx, task, finished); err != nil {
			return false, err
		}
		reset := domain.NewStepReset(now, stepIdx, true)
		if err := p.Log.Append(ctx, task, reset); err != nil {
			return false, err
		}
		return true, nil

	case domain.VerdictYield:
		ev := domain.NewStepYielded(now, stepIdx, verdict.Reason)
		ev.Message = verdict.Outcome.Feedback
		if err := p.Log.Append(ctx, task, ev); err != nil {
			return false, err
		}
		return false, nil

	case domain.VerdictFail:
		var ev domain.Event
		if verdict.Outcome.Kind == domain.OutcomeVerifyFailed {
			ev = domain.NewVerifyFailed(now, stepIdx, verdict.Outcome.Feedback)
		} else {
			ev = domain.NewStepFinished(now, stepIdx, verdict.Outcome.ExitCode, false, record.Duration, record.Stdout, record.Stderr)
		}
		if err := p.Log.Append(ctx, task, ev); err != nil {
			return false, err
		}
		return false, nil

	default:
		return false, nil
	}
}

// alreadySettled reports whether the replayed state already reflects a
// settlement of stepIdx: either it closed (Success/Failed/Skipped) or the
// task yielded/stopped/failed on exactly this step since starting.
func alreadySettled(res replay.Result, stepIdx int) bool {
	if res.State == nil {
		return false
	}
	if _, closed := res.State.StepStatus[stepIdx]; closed {
		return true
	}
	if res.State.Status == domain.StatusWaiting || res.State.Status == domain.StatusFailed || res.State.Status == domain.StatusStopped {
		return res.State.CurrentStep == stepIdx
	}
	return false
}
