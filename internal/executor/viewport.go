//go:build unix

package executor

import (
	"context"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/seqctl/seqctl/internal/constants"
	"github.com/seqctl/seqctl/internal/domain"
)

// InViewportEnvVar is the marker a resident executor inherits via the
// environment, read-only once set, so downstream consecutive in-viewport
// steps recognize they are already inside the surface and skip re-wrapping.
const InViewportEnvVar = constants.EnvPrefix + "_IN_VIEWPORT"

// InViewport reports whether the current process is already executing
// inside the named viewport.
func InViewport(task string) bool {
	return os.Getenv(InViewportEnvVar) == task
}

// RunResident runs command as the viewport-resident child: the calling
// process (seqctl _run) becomes the step. It ignores SIGHUP so it
// survives the viewport's controlling terminal closing, exports the
// IN_VIEWPORT marker, inherits stdio from its own process, and on exit
// redirects stdout/stderr to the null device before returning so that any
// further writes do not hit a dead pty.
func RunResident(ctx context.Context, task, command, workDir string, env []string) (domain.StepRecord, error) {
	signal.Ignore(syscall.SIGHUP)

	env = append(append([]string(nil), env...), InViewportEnvVar+"="+task)

	cmd := exec.CommandContext(ctx, "sh", "-c", command) //#nosec G204 -- command comes from the project's own workflow config
	cmd.Dir = workDir
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	redirectToNull()

	record := domain.StepRecord{Duration: duration}
	if err == nil {
		return record, nil
	}
	if ctx.Err() != nil {
		return record, ctx.Err()
	}

	var exitErr *exec.ExitError
	if asExitError(err, &exitErr) {
		record.ExitCode = exitErr.ExitCode()
		return record, nil
	}
	return record, err
}

// redirectToNull points the process's own stdout/stderr at /dev/null. The
// viewport's pty may already be dead by the time the resident command
// exits; writing to it would abort the process before it can settle the
// step.
func redirectToNull() {
	null, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return
	}
	_ = syscall.Dup2(int(null.Fd()), int(os.Stdout.Fd()))
	_ = syscall.Dup2(int(null.Fd()), int(os.Stderr.Fd()))
	_ = null.Close()
}

// ReadyToSettle re-checks the task is still in the state this resident
// command was dispatched for, guarding against another process (e.g. an
// explicit `done`) having already settled this step while the command ran.
func ReadyToSettle(status domain.Status, currentStep, stepIdx int) bool {
	return status == domain.StatusRunning && currentStep == stepIdx
}
