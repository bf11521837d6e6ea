// Package viewport abstracts a named, human-observable execution surface.
// The capability set is a bag of operations, not an inheritance hierarchy:
// any backend satisfying Driver can host an in-viewport step.
package viewport

import "context"

// Driver is the capability set a concrete terminal-multiplexer (or other)
// backend must implement. open is idempotent; close on a surface that does
// not exist is a no-op; read distinguishes "surface gone" from "surface
// exists but empty" via its bool return.
type Driver interface {
	// Open idempotently ensures a named, detached surface exists rooted
	// at cwd.
	Open(ctx context.Context, name, cwd string) error

	// Exists reports whether the named surface is currently alive.
	Exists(ctx context.Context, name string) (bool, error)

	// Send delivers text as if typed by a user and submits it (a
	// trailing newline is appended). The single byte 0x03 is treated as
	// an interrupt rather than literal text.
	Send(ctx context.Context, name, text string) error

	// Read captures the last n lines of scrollback. ok is false only
	// when the surface does not exist; an existing-but-empty surface
	// returns ("", true, nil).
	Read(ctx context.Context, name string, lines int) (content string, ok bool, err error)

	// Close tears down the named surface. Closing a surface that does
	// not exist is a no-op.
	Close(ctx context.Context, name string) error

	// Attach connects the caller's own terminal to the named surface,
	// for interactive use by `seqctl status --attach`-style commands.
	Attach(ctx context.Context, name string) error
}

// NameFor derives the one viewport surface name owned by task, shared by
// every package that opens, inspects, or tears one down.
func NameFor(task string) string {
	return "seqctl-" + task
}
