// Package testutil provides mock errors shared by this module's _test.go
// files for driving failure paths without depending on a real backend.
package testutil

import "errors"

// ErrMockViewportUnavailable simulates a viewport.Driver method failing,
// e.g. tmux itself erroring rather than reporting a missing surface.
var ErrMockViewportUnavailable = errors.New("viewport driver unavailable")
