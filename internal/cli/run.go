package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/seqctl/seqctl/internal/errors"
	"github.com/seqctl/seqctl/internal/executor"
	"github.com/seqctl/seqctl/internal/replay"
)

// AddRunCommand registers the hidden `seqctl _run` internal command: the
// re-entry point a viewport's shell invokes to continue a dispatched step
// inside the viewport process itself.
func AddRunCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:    "_run <task> <step>",
		Short:  "Internal viewport-resident step executor",
		Hidden: true,
		Args:   cobra.ExactArgs(2),
		RunE:   runRun,
	}
	root.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	task := args[0]
	stepIdx, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "invalid step index %q", args[1])
	}

	app, err := loadApp(projectFlag(cmd))
	if err != nil {
		return err
	}
	def, wf, err := app.TaskDefinition(task)
	if err != nil {
		return err
	}

	// A re-entry process only acts if the task is still exactly where it
	// was dispatched for; another process (an explicit `done`, a reset)
	// may have already settled or diverted this step by the time the
	// viewport's shell got around to running this command.
	events, err := app.Log.Read(task)
	if err != nil {
		return err
	}
	res := replay.Replay(events, wf.Len())
	if res.State == nil || !executor.ReadyToSettle(res.State.Status, res.State.CurrentStep, stepIdx) {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"task": task, "skipped": true})
	}

	if err := app.Driver.Resume(cmd.Context(), task, wf, def); err != nil {
		return err
	}
	return writeStatus(cmd, app, task)
}
