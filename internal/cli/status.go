package cli

import (
	"github.com/spf13/cobra"

	"github.com/seqctl/seqctl/internal/statusview"
)

// AddStatusCommand registers `seqctl status [task]`.
func AddStatusCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "status [task]",
		Short: "Print a task's detailed status, or every task's if none is given",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStatus,
	})
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := loadApp(projectFlag(cmd))
	if err != nil {
		return err
	}

	if len(args) == 0 {
		resp, err := statusview.List(cmd.Context(), app.Project, app.Config, app.Log, app.Viewport)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), resp)
	}

	def, _, err := app.TaskDefinition(args[0])
	if err != nil {
		return err
	}
	def.Name = args[0]
	view, err := statusview.Build(cmd.Context(), app.Project, app.Config, app.Log, app.Viewport, def)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), view)
}
