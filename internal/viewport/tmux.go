package viewport

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/seqctl/seqctl/internal/errors"
)

const interrupt = "\x03"

// TmuxDriver implements Driver over the `tmux` binary, one tmux session
// per viewport name.
type TmuxDriver struct {
	// Bin overrides the tmux executable path; defaults to "tmux" on PATH.
	Bin string
}

func (d TmuxDriver) bin() string {
	if d.Bin != "" {
		return d.Bin
	}
	return "tmux"
}

func (d TmuxDriver) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, d.bin(), args...) //#nosec G204 -- args constructed internally, not user input

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if stderr.Len() > 0 {
			return "", fmt.Errorf("tmux %s failed: %s: %w", args[0], strings.TrimSpace(stderr.String()), errors.ErrViewportOperation)
		}
		return "", fmt.Errorf("tmux %s failed: %w", args[0], errors.ErrViewportOperation)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Open creates a detached tmux session named name rooted at cwd, if one
// does not already exist.
func (d TmuxDriver) Open(ctx context.Context, name, cwd string) error {
	exists, err := d.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = d.run(ctx, "new-session", "-d", "-s", name, "-c", cwd)
	return err
}

// Exists reports whether a tmux session named name is currently alive.
func (d TmuxDriver) Exists(ctx context.Context, name string) (bool, error) {
	_, err := d.run(ctx, "has-session", "-t", name)
	if err == nil {
		return true, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	// has-session exits non-zero for "no such session"; treat any
	// failure of this specific check as absence rather than propagating.
	return false, nil
}

// Send types text into the session followed by Enter. The literal byte
// 0x03 is sent as a raw interrupt (tmux's send-keys C-c) instead of text.
func (d TmuxDriver) Send(ctx context.Context, name, text string) error {
	if text == interrupt {
		_, err := d.run(ctx, "send-keys", "-t", name, "C-c")
		return err
	}
	_, err := d.run(ctx, "send-keys", "-t", name, text, "Enter")
	return err
}

// Read captures the last lines of the session's scrollback via
// capture-pane.
func (d TmuxDriver) Read(ctx context.Context, name string, lines int) (string, bool, error) {
	exists, err := d.Exists(ctx, name)
	if err != nil {
		return "", false, err
	}
	if !exists {
		return "", false, nil
	}
	out, err := d.run(ctx, "capture-pane", "-t", name, "-p", "-S", "-"+strconv.Itoa(lines))
	if err != nil {
		return "", true, err
	}
	return out, true, nil
}

// Close kills the tmux session. Killing a session that does not exist is
// treated as success.
func (d TmuxDriver) Close(ctx context.Context, name string) error {
	exists, err := d.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	_, err = d.run(ctx, "kill-session", "-t", name)
	return err
}

// Attach execs `tmux attach-session`, connecting the caller's controlling
// terminal to the session.
func (d TmuxDriver) Attach(ctx context.Context, name string) error {
	cmd := exec.CommandContext(ctx, d.bin(), "attach-session", "-t", name) //#nosec G204 -- args constructed internally, not user input
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("tmux attach-session failed: %w", errors.ErrViewportOperation)
	}
	return nil
}

var _ Driver = TmuxDriver{}
