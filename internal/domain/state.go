package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskState is the projection Replay reconstructs from a task's event log.
// It is never persisted on its own; it is always re-derivable and callers
// must treat it as a read-only snapshot of a single replay pass.
type TaskState struct {
	CurrentStep int                      `json:"current_step"`
	Status      Status                   `json:"status"`
	StepStatus  map[int]StepStatus       `json:"step_status"`
	RunID       uuid.UUID                `json:"run_id"`
	StartedAt   time.Time                `json:"started_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
	Message     string                   `json:"message,omitempty"`

	// LastYieldReason is the reason of the most recent unresolved
	// step_yielded, valid only while Status is Waiting.
	LastYieldReason YieldReason `json:"last_yield_reason,omitempty"`
}

// Completed reports whether current_step has advanced past the end of a
// workflow of the given length. Replay promotes Running states satisfying
// this to Completed as its terminal-derivation pass.
func (s TaskState) Completed(workflowLen int) bool {
	return s.CurrentStep >= workflowLen
}

// RetryCounts maps a step index to how many times that step has been
// auto-retried within the current run, i.e. the number of
// step_reset(auto=true) events at that step since the last task_started.
// Replay tracks this and exposes it on its Result for the settlement
// pipeline's decide phase.
type RetryCounts map[int]int

// StepRecord is the raw outcome of running a step's run command, captured
// by the executor before verification or settlement.
type StepRecord struct {
	ExitCode int
	Duration time.Duration
	Stdout   string
	Stderr   string
}

// VerifyResult is the outcome of running a step's verify property.
type VerifyResult int

const (
	VerifyPassed VerifyResult = iota
	VerifyFailed
	VerifyPending
)

// Outcome is the result of the settlement pipeline's combine phase: the
// raw StepRecord and VerifyResult folded into one classification.
type Outcome struct {
	Kind     OutcomeKind
	ExitCode int
	Feedback string
}

// OutcomeKind enumerates the combine phase's possible classifications.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeVerifyFailed
	OutcomeYielded
	OutcomeRunFailed
)

// Combine implements the settlement pipeline's first phase: fold a step's
// raw exit status and verify outcome into a single Outcome.
func Combine(record StepRecord, verify VerifyResult, feedback string) Outcome {
	if record.ExitCode != 0 {
		return Outcome{Kind: OutcomeRunFailed, ExitCode: record.ExitCode}
	}
	switch verify {
	case VerifyPassed:
		return Outcome{Kind: OutcomeSuccess}
	case VerifyFailed:
		return Outcome{Kind: OutcomeVerifyFailed, Feedback: feedback}
	case VerifyPending:
		return Outcome{Kind: OutcomeYielded}
	default:
		return Outcome{Kind: OutcomeSuccess}
	}
}

// VerdictKind enumerates the settlement pipeline's decide-phase outputs.
type VerdictKind int

const (
	VerdictAdvance VerdictKind = iota
	VerdictRetryAuto
	VerdictYield
	VerdictFail
)

// Verdict is the settlement pipeline's decide-phase output: what the apply
// phase should write to the event log. Outcome is carried through so apply
// can recover exit code and feedback without re-deriving them.
type Verdict struct {
	Kind    VerdictKind
	Reason  YieldReason
	Outcome Outcome
}

// Decide implements the settlement pipeline's second phase: apply a step's
// on_fail policy and retry budget to an Outcome.
func Decide(outcome Outcome, onFail OnFail, retryCount, maxRetries int) Verdict {
	switch outcome.Kind {
	case OutcomeSuccess:
		return Verdict{Kind: VerdictAdvance, Outcome: outcome}
	case OutcomeYielded:
		return Verdict{Kind: VerdictYield, Reason: ReasonVerifyManual, Outcome: outcome}
	case OutcomeRunFailed, OutcomeVerifyFailed:
		if onFail == OnFailRetry && retryCount < maxRetries {
			return Verdict{Kind: VerdictRetryAuto, Outcome: outcome}
		}
		if onFail == OnFailHuman && outcome.Kind == OutcomeRunFailed {
			return Verdict{Kind: VerdictYield, Reason: ReasonOnFailManual, Outcome: outcome}
		}
		return Verdict{Kind: VerdictFail, Outcome: outcome}
	default:
		return Verdict{Kind: VerdictFail, Outcome: outcome}
	}
}
