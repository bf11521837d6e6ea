// Package verifier runs a step's verify property against the output of a
// completed run, producing the VerifyResult the settlement pipeline's
// combine phase consumes.
package verifier

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/seqctl/seqctl/internal/constants"
	"github.com/seqctl/seqctl/internal/domain"
)

const humanSentinel = "human"

// Verify runs step's verify property in workDir with env as the command's
// environment (a nil env inherits the current process environment). An
// absent verify always passes; the
// human sentinel yields immediately; anything else is run as a shell
// command whose exit code decides pass/fail.
func Verify(ctx context.Context, verify, workDir string, env []string) (domain.VerifyResult, string, error) {
	switch {
	case verify == "":
		return domain.VerifyPassed, "", nil
	case verify == humanSentinel:
		return domain.VerifyPending, "", nil
	default:
		return runShell(ctx, verify, workDir, env)
	}
}

func runShell(ctx context.Context, command, workDir string, env []string) (domain.VerifyResult, string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command) //#nosec G204 -- command comes from the project's own workflow config
	cmd.Dir = workDir
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return domain.VerifyPassed, "", nil
	}
	if ctx.Err() != nil {
		return domain.VerifyFailed, "", ctx.Err()
	}

	var exitErr *exec.ExitError
	if !isExitError(err, &exitErr) {
		return domain.VerifyFailed, "", err
	}
	return domain.VerifyFailed, feedback(stdout.String(), stderr.String()), nil
}

func isExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}
	return ok
}

// feedback bounds stdout/stderr to the last constants.VerifyFeedbackLines
// lines each, concatenated, for use as a human-readable failure summary.
func feedback(stdout, stderr string) string {
	var b strings.Builder
	if s := lastLines(stdout, constants.VerifyFeedbackLines); s != "" {
		b.WriteString("stdout:\n")
		b.WriteString(s)
	}
	if s := lastLines(stderr, constants.VerifyFeedbackLines); s != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("stderr:\n")
		b.WriteString(s)
	}
	return b.String()
}

func lastLines(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
