package cli

import (
	"github.com/spf13/cobra"
)

// AddResetCommand registers `seqctl reset`.
func AddResetCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "reset <task>",
		Short: "Discard a task's history, or retry just its current step with --step",
		Args:  cobra.ExactArgs(1),
		RunE:  runReset,
	}
	cmd.Flags().Bool("step", false, "retry the current step only, keeping prior step history")
	root.AddCommand(cmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	task := args[0]
	stepOnly, _ := cmd.Flags().GetBool("step")

	app, err := loadApp(projectFlag(cmd))
	if err != nil {
		return err
	}

	if stepOnly {
		def, wf, err := app.TaskDefinition(task)
		if err != nil {
			return err
		}
		if err := app.Driver.ResetStep(cmd.Context(), task, wf, def); err != nil {
			return err
		}
		return writeStatus(cmd, app, task)
	}

	if err := app.Driver.ResetFull(cmd.Context(), task); err != nil {
		return err
	}
	return writeStatus(cmd, app, task)
}
