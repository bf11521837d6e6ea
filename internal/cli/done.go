package cli

import (
	"github.com/spf13/cobra"
)

// AddDoneCommand registers `seqctl done`.
func AddDoneCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "done <task>",
		Short: "Approve a gate or declare a manually-verified viewport step done",
		Args:  cobra.ExactArgs(1),
		RunE:  runDone,
	}
	cmd.Flags().StringP("message", "m", "", "message recorded alongside the approval")
	root.AddCommand(cmd)
}

func runDone(cmd *cobra.Command, args []string) error {
	task := args[0]
	message, _ := cmd.Flags().GetString("message")

	app, err := loadApp(projectFlag(cmd))
	if err != nil {
		return err
	}
	def, wf, err := app.TaskDefinition(task)
	if err != nil {
		return err
	}
	if err := app.Driver.Done(cmd.Context(), task, wf, def, message); err != nil {
		return err
	}
	return writeStatus(cmd, app, task)
}
