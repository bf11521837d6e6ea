package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventKind tags the variant of an Event. The event log is a sealed union
// of these kinds; replay switches on Kind rather than relying on which
// optional fields happen to be populated.
type EventKind string

const (
	EventTaskStarted      EventKind = "task_started"
	EventStepFinished     EventKind = "step_finished"
	EventStepYielded      EventKind = "step_yielded"
	EventStepResumed      EventKind = "step_resumed"
	EventStepSkipped      EventKind = "step_skipped"
	EventStepReset        EventKind = "step_reset"
	EventViewportLaunched EventKind = "viewport_launched"
	EventViewportLost     EventKind = "viewport_lost"
	EventTaskStopped      EventKind = "task_stopped"
	EventTaskReset        EventKind = "task_reset"
	EventVerifyFailed     EventKind = "verify_failed"
)

// Event is one JSON object per line in a task's event log. Every field
// beyond Type/Timestamp is optional and only meaningful for certain kinds;
// this mirrors the wire format rather than splitting into per-kind Go
// types, so that an unrecognized-but-well-formed line can still round-trip
// through Marshal/Unmarshal during tooling (log, events --follow).
type Event struct {
	Type      EventKind `json:"type"`
	Timestamp time.Time `json:"ts"`

	RunID uuid.UUID `json:"run_id,omitempty"`

	Step *int `json:"step,omitempty"`

	Success  *bool  `json:"success,omitempty"`
	ExitCode *int   `json:"exit_code,omitempty"`
	Duration *int64 `json:"duration_ms,omitempty"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`

	Reason   YieldReason `json:"reason,omitempty"`
	Feedback string      `json:"feedback,omitempty"`
	Auto     *bool       `json:"auto,omitempty"`
	Message  string      `json:"message,omitempty"`
}

// StepIndex returns the step field, or -1 if this event kind carries none.
func (e Event) StepIndex() int {
	if e.Step == nil {
		return -1
	}
	return *e.Step
}

// IsAuto reports the auto field, defaulting to false when absent.
func (e Event) IsAuto() bool {
	return e.Auto != nil && *e.Auto
}

// IsSuccess reports the success field, defaulting to false when absent.
func (e Event) IsSuccess() bool {
	return e.Success != nil && *e.Success
}

// MarshalLine encodes the event as a single newline-terminated JSON line,
// the unit the event log appends atomically.
func (e Event) MarshalLine() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

// NewTaskStarted builds a task_started event with a fresh run id.
func NewTaskStarted(ts time.Time, runID uuid.UUID) Event {
	return Event{Type: EventTaskStarted, Timestamp: ts, RunID: runID}
}

// NewStepFinished builds a step_finished event.
func NewStepFinished(ts time.Time, step, exitCode int, success bool, dur time.Duration, stdout, stderr string) Event {
	ms := dur.Milliseconds()
	return Event{
		Type:     EventStepFinished,
		Timestamp: ts,
		Step:     intPtr(step),
		Success:  boolPtr(success),
		ExitCode: intPtr(exitCode),
		Duration: &ms,
		Stdout:   stdout,
		Stderr:   stderr,
	}
}

// NewStepYielded builds a step_yielded event.
func NewStepYielded(ts time.Time, step int, reason YieldReason) Event {
	return Event{Type: EventStepYielded, Timestamp: ts, Step: intPtr(step), Reason: reason}
}

// NewStepResumed builds a step_resumed event.
func NewStepResumed(ts time.Time, step int) Event {
	return Event{Type: EventStepResumed, Timestamp: ts, Step: intPtr(step)}
}

// NewStepSkipped builds a step_skipped event.
func NewStepSkipped(ts time.Time, step int) Event {
	return Event{Type: EventStepSkipped, Timestamp: ts, Step: intPtr(step)}
}

// NewStepReset builds a step_reset event.
func NewStepReset(ts time.Time, step int, auto bool) Event {
	return Event{Type: EventStepReset, Timestamp: ts, Step: intPtr(step), Auto: boolPtr(auto)}
}

// NewViewportLaunched builds a viewport_launched event.
func NewViewportLaunched(ts time.Time, step int) Event {
	return Event{Type: EventViewportLaunched, Timestamp: ts, Step: intPtr(step)}
}

// NewViewportLost builds a viewport_lost event.
func NewViewportLost(ts time.Time, step int) Event {
	return Event{Type: EventViewportLost, Timestamp: ts, Step: intPtr(step)}
}

// NewTaskStopped builds a task_stopped event.
func NewTaskStopped(ts time.Time, step int) Event {
	return Event{Type: EventTaskStopped, Timestamp: ts, Step: intPtr(step)}
}

// NewTaskReset builds a task_reset event.
func NewTaskReset(ts time.Time) Event {
	return Event{Type: EventTaskReset, Timestamp: ts}
}

// NewVerifyFailed builds a verify_failed event.
func NewVerifyFailed(ts time.Time, step int, feedback string) Event {
	return Event{Type: EventVerifyFailed, Timestamp: ts, Step: intPtr(step), Feedback: feedback}
}
