package cli

import (
	"github.com/spf13/cobra"
)

// AddStopCommand registers `seqctl stop`.
func AddStopCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "stop <task>",
		Short: "Stop a running task, interrupting its viewport if it has one",
		Args:  cobra.ExactArgs(1),
		RunE:  runStop,
	})
}

func runStop(cmd *cobra.Command, args []string) error {
	task := args[0]
	app, err := loadApp(projectFlag(cmd))
	if err != nil {
		return err
	}
	_, wf, err := app.TaskDefinition(task)
	if err != nil {
		return err
	}
	if err := app.Driver.Stop(cmd.Context(), task, wf); err != nil {
		return err
	}
	return writeStatus(cmd, app, task)
}
