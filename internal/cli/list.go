package cli

import (
	"github.com/spf13/cobra"

	"github.com/seqctl/seqctl/internal/statusview"
)

// AddListCommand registers `seqctl list`.
func AddListCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print a JSON summary of every task and workflow in the project",
		Args:  cobra.NoArgs,
		RunE:  runList,
	})
}

func runList(cmd *cobra.Command, _ []string) error {
	app, err := loadApp(projectFlag(cmd))
	if err != nil {
		return err
	}
	resp, err := statusview.List(cmd.Context(), app.Project, app.Config, app.Log, app.Viewport)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), resp)
}
