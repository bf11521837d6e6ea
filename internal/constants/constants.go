// Package constants provides centralized constant values used throughout seqctl.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory and file names used by seqctl for project-local state.
const (
	// ProjectDir is the hidden directory name where a project's seqctl state lives,
	// rooted at the project directory (not the user's home directory).
	ProjectDir = ".seqctl"

	// ConfigFileName is the workflow/hook configuration file, JSONC.
	ConfigFileName = "config.jsonc"

	// TasksDir holds one frontmatter+markdown file per task definition.
	TasksDir = "tasks"

	// LogsDir holds one append-only JSONL event log per task.
	LogsDir = "logs"

	// StreamsDir holds one live stdout stream file per task.
	StreamsDir = "streams"
)

// EnvPrefix is the prefix applied to environment variables exposed to step
// commands and consulted for CLI flag overrides.
const EnvPrefix = "SEQCTL"

// File permission constants.
const (
	DirPerm  = 0o750
	FilePerm = 0o600
)

// MaxEventLineBytes bounds a single event line so writes stay within
// PIPE_BUF on the platforms that guarantee atomic appends.
const MaxEventLineBytes = 4096

// LockTimeout is the maximum duration to wait for acquiring a file lock
// on the event log or project store.
const LockTimeout = 5 * time.Second

// Default retry/verify/wait tuning.
const (
	// DefaultMaxRetries is the workflow-level default when a step does not
	// override max_retries.
	DefaultMaxRetries = 0

	// DefaultWaitInterval is the poll interval for `seqctl wait`.
	DefaultWaitInterval = 2 * time.Second

	// DefaultWaitTimeout is used when --timeout is not supplied.
	DefaultWaitTimeout = 10 * time.Minute

	// VerifyFeedbackLines bounds how many trailing stdout/stderr lines are
	// captured as verify feedback.
	VerifyFeedbackLines = 20

	// DefaultViewportReadLines is the default scrollback size requested
	// from the viewport driver when capturing output for display.
	DefaultViewportReadLines = 200
)

// Log rotation configuration, mirrored from the ambient logging stack.
const (
	LogMaxSizeMB  = 10
	LogMaxBackups = 5
	LogMaxAgeDays = 30
	LogCompress   = true
)

// ConfigSchemaVersion is the current version of the workflow config schema.
const ConfigSchemaVersion = "1.0"
