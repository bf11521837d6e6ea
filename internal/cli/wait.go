package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/seqctl/seqctl/internal/constants"
	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/errors"
	"github.com/seqctl/seqctl/internal/waiter"
)

// AddWaitCommand registers `seqctl wait`.
func AddWaitCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "wait <task>",
		Short: "Block until a task's status matches one of --until, times out, or becomes unreachable",
		Args:  cobra.ExactArgs(1),
		RunE:  runWait,
	}
	cmd.Flags().String("until", "", "comma-separated statuses to wait for (required)")
	cmd.Flags().Duration("timeout", constants.DefaultWaitTimeout, "maximum time to wait")
	cmd.Flags().Duration("interval", constants.DefaultWaitInterval, "poll interval")
	root.AddCommand(cmd)
}

func runWait(cmd *cobra.Command, args []string) error {
	task := args[0]
	until, _ := cmd.Flags().GetString("until")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	interval, _ := cmd.Flags().GetDuration("interval")

	if strings.TrimSpace(until) == "" {
		return errors.Wrap(errors.ErrInvalidArgument, "--until is required")
	}
	targets := parseStatusSet(until)

	app, err := loadApp(projectFlag(cmd))
	if err != nil {
		return err
	}
	_, wf, err := app.TaskDefinition(task)
	if err != nil {
		return err
	}

	outcome, state, err := waiter.Wait(cmd.Context(), app.Log, app.Viewport, waiter.SystemClock{}, waiter.Params{
		Task:        task,
		WorkflowLen: wf.Len(),
		Until:       targets,
		Timeout:     timeout,
		Interval:    interval,
	})
	if err != nil {
		return err
	}

	switch outcome {
	case waiter.OutcomeTimeout:
		return errors.ErrWaitTimeout
	case waiter.OutcomeUnreachable:
		return errors.ErrUnreachable
	default:
		result := map[string]any{"task": task, "outcome": string(outcome)}
		if state != nil {
			result["status"] = state.Status
			result["current_step"] = state.CurrentStep
		}
		return writeJSON(cmd.OutOrStdout(), result)
	}
}

func parseStatusSet(csv string) map[domain.Status]bool {
	set := make(map[domain.Status]bool)
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		set[domain.Status(part)] = true
	}
	return set
}
