package cli

import (
	"github.com/spf13/cobra"
)

// AddStartCommand registers `seqctl start`.
func AddStartCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "start <task>",
		Short: "Begin a task, validating its dependencies first",
		Args:  cobra.ExactArgs(1),
		RunE:  runStart,
	}
	cmd.Flags().Bool("reset", false, "discard prior history for this task before starting")
	root.AddCommand(cmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	task := args[0]
	reset, _ := cmd.Flags().GetBool("reset")

	app, err := loadApp(projectFlag(cmd))
	if err != nil {
		return err
	}
	def, wf, err := app.TaskDefinition(task)
	if err != nil {
		return err
	}
	workflows, workflowOf, err := app.WorkflowIndex(def.Depends)
	if err != nil {
		return err
	}

	if err := app.Driver.Start(cmd.Context(), task, wf, def, workflows, workflowOf, reset); err != nil {
		return err
	}
	return writeStatus(cmd, app, task)
}
