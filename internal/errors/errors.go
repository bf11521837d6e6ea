// Package errors provides centralized error handling for seqctl.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Class is the taxonomy bucket an error belongs to. Each class maps to
// exactly one CLI exit code via classExitCode.
type Class int

// Error classes.
const (
	ClassNone Class = iota
	ClassStateConflict
	ClassPrecondition
	ClassNotFound
	ClassAlreadyExists
	ClassValidation
	ClassTimeout
)

// Sentinel errors for error categorization. All errors use lowercase
// descriptions per Go conventions. Most are registered with a Class in the
// entries table (user.go) so callers never need to classify by string
// matching; an unregistered sentinel classifies as ClassNone.
var (
	// ErrTaskNotFound indicates the requested task has no definition or run.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskExists indicates a task definition already exists under that name.
	ErrTaskExists = errors.New("task already exists")

	// ErrProjectExists indicates `init` was run where a project already exists.
	ErrProjectExists = errors.New("project already initialized")

	// ErrProjectNotFound indicates no .seqctl directory could be located.
	ErrProjectNotFound = errors.New("not inside a seqctl project")

	// ErrInvalidTaskName indicates a task name failed validation (empty, path
	// traversal, or disallowed characters).
	ErrInvalidTaskName = errors.New("invalid task name")

	// ErrTaskAlreadyRunning indicates `start` was called on a task whose
	// replayed status is not eligible to (re)start.
	ErrTaskAlreadyRunning = errors.New("task is already running or completed")

	// ErrTaskNotRunning indicates `stop`/`done` was called on a task that is
	// not in a state that accepts the operation.
	ErrTaskNotRunning = errors.New("task is not running or waiting")

	// ErrDependenciesUnmet indicates one or more `depends` tasks have not
	// reached Completed.
	ErrDependenciesUnmet = errors.New("task dependencies are not complete")

	// ErrTaskNotStarted indicates replay produced no state (Pending sentinel).
	ErrTaskNotStarted = errors.New("task has not been started")

	// ErrUnreachable indicates the waiter determined the requested status
	// set can never be reached from the current state without a reset.
	ErrUnreachable = errors.New("requested status is unreachable from current state")

	// ErrWaitTimeout indicates `wait` exceeded its timeout without a match.
	ErrWaitTimeout = errors.New("wait timed out")

	// ErrCorruptEventLog indicates a malformed JSON line was found in an
	// event log; this is a hard, unrecovered fault by design.
	ErrCorruptEventLog = errors.New("event log is corrupted")

	// ErrEventLineTooLong indicates an event serialized to more bytes than
	// constants.MaxEventLineBytes allows.
	ErrEventLineTooLong = errors.New("event line exceeds maximum size")

	// ErrLockTimeout indicates a file lock could not be acquired in time.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrInvalidWorkflow indicates a workflow configuration failed validation
	// (duplicate step names, negative retries, unknown on_fail values).
	ErrInvalidWorkflow = errors.New("invalid workflow configuration")

	// ErrInvalidTaskDefinition indicates a task definition file is malformed.
	ErrInvalidTaskDefinition = errors.New("invalid task definition")

	// ErrConfigNotFound indicates config.jsonc does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigParse indicates config.jsonc failed to parse as JSONC.
	ErrConfigParse = errors.New("config parse error")

	// ErrViewportNotFound indicates a viewport operation targeted a surface
	// the driver reports does not exist.
	ErrViewportNotFound = errors.New("viewport does not exist")

	// ErrViewportOperation wraps a failure from the concrete viewport driver.
	ErrViewportOperation = errors.New("viewport operation failed")

	// ErrStepCommandFailed wraps a non-zero exit from a synchronous step.
	ErrStepCommandFailed = errors.New("step command failed")

	// ErrInvalidArgument indicates a CLI argument or flag failed validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyValue indicates a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrNotInStepContext indicates `_run` was invoked outside a viewport
	// re-entry (no IN_VIEWPORT marker / mismatched step).
	ErrNotInStepContext = errors.New("not executing inside the expected step context")
)
