package cli

import (
	"encoding/json"
	"io"

	"github.com/seqctl/seqctl/internal/errors"
)

// writeJSON encodes v to w as indented JSON terminated by a newline, the
// machine-parseable success output every command prints to stdout.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// errorObject is the JSON shape written to stderr on command failure.
type errorObject struct {
	Error   string   `json:"error"`
	Class   string   `json:"class,omitempty"`
	Suggest []string `json:"suggest,omitempty"`
}

// WriteError encodes err as a JSON error object to w, using the
// internal/errors taxonomy for its class and suggested remediation.
func WriteError(w io.Writer, err error) error {
	obj := errorObject{
		Error:   errors.UserMessage(err),
		Class:   errors.ClassName(err),
		Suggest: errors.Suggest(err),
	}
	if obj.Error == "" {
		obj.Error = err.Error()
	}
	return writeJSON(w, obj)
}

// ExitCodeForError maps a command's terminal error to the process exit
// code defined by spec.md §7's taxonomy.
func ExitCodeForError(err error) int {
	return errors.ExitCode(err)
}
