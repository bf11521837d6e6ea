package errors

import "errors"

// Info holds the user-facing message, class, and suggested remediation
// commands for an error.
type Info struct {
	Class   Class
	Message string
	Suggest []string
}

type entry struct {
	err  error
	info Info
}

// entries is the single source of truth mapping sentinel errors to their
// class and user-facing text. Using a slice (not a map) because errors.Is()
// requires proper error-chain traversal for wrapped errors.
//
//nolint:gochecknoglobals // pre-built mapping, read-only after init
var entries = []entry{
	{ErrTaskNotFound, Info{ClassNotFound, "The specified task was not found.", []string{"seqctl list"}}},
	{ErrConfigNotFound, Info{ClassNotFound, "No config.jsonc found for this project.", []string{"seqctl init"}}},
	{ErrProjectNotFound, Info{ClassNotFound, "This directory is not inside a seqctl project.", []string{"seqctl init"}}},
	{ErrViewportNotFound, Info{ClassNotFound, "The viewport for this task no longer exists.", []string{"seqctl status <task>"}}},

	{ErrTaskExists, Info{ClassAlreadyExists, "A task with this name already exists.", []string{"seqctl status <task>"}}},
	{ErrProjectExists, Info{ClassAlreadyExists, "A seqctl project already exists here.", nil}},

	{ErrTaskAlreadyRunning, Info{ClassStateConflict, "The task is already running or has completed.", []string{"seqctl status <task>", "seqctl start <task> --reset"}}},
	{ErrTaskNotRunning, Info{ClassStateConflict, "The task is not in a Running or Waiting state.", []string{"seqctl status <task>"}}},

	{ErrDependenciesUnmet, Info{ClassPrecondition, "One or more dependencies have not completed.", []string{"seqctl status"}}},
	{ErrTaskNotStarted, Info{ClassPrecondition, "The task has not been started yet.", []string{"seqctl start <task>"}}},
	{ErrUnreachable, Info{ClassStateConflict, "The requested status can no longer be reached without a reset.", []string{"seqctl reset <task>"}}},

	{ErrInvalidTaskName, Info{ClassValidation, "The task name is invalid.", nil}},
	{ErrInvalidWorkflow, Info{ClassValidation, "The workflow configuration is invalid.", []string{"seqctl validate"}}},
	{ErrInvalidTaskDefinition, Info{ClassValidation, "The task definition file is malformed.", nil}},
	{ErrConfigParse, Info{ClassValidation, "config.jsonc could not be parsed.", nil}},
	{ErrInvalidArgument, Info{ClassValidation, "An invalid argument was provided.", nil}},
	{ErrEmptyValue, Info{ClassValidation, "A required value was not provided.", nil}},

	{ErrWaitTimeout, Info{ClassTimeout, "Timed out waiting for the requested status.", []string{"seqctl status <task>"}}},

	{ErrCorruptEventLog, Info{ClassValidation, "The event log contains a malformed entry and cannot be replayed.", nil}},
}

//nolint:gochecknoglobals // built once from entries
var byErr = func() map[error]Info {
	m := make(map[error]Info, len(entries))
	for _, e := range entries {
		m[e.err] = e.info
	}
	return m
}()

func lookup(err error) Info {
	if info, ok := byErr[err]; ok {
		return info
	}
	for _, e := range entries {
		if errors.Is(err, e.err) {
			return e.info
		}
	}
	return Info{Class: ClassNone, Message: err.Error()}
}

// Classify returns the taxonomy class for err, or ClassNone if unrecognized.
func Classify(err error) Class {
	if err == nil {
		return ClassNone
	}
	return lookup(err).Class
}

// UserMessage returns a human-readable message for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return lookup(err).Message
}

// Suggest returns the remediation command list for err, possibly nil.
func Suggest(err error) []string {
	if err == nil {
		return nil
	}
	return lookup(err).Suggest
}
