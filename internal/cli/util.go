package cli

import (
	"github.com/spf13/cobra"

	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/statusview"
)

// projectFlag reads the --project persistent flag's value from any
// command in the tree.
func projectFlag(cmd *cobra.Command) string {
	v, _ := cmd.Flags().GetString("project")
	return v
}

// currentRunEvents trims events to those recorded since the most recent
// task_reset, the default scope for `log`/`events` absent --all-runs.
func currentRunEvents(events []domain.Event) []domain.Event {
	lastReset := -1
	for i, e := range events {
		if e.Type == domain.EventTaskReset {
			lastReset = i
		}
	}
	return events[lastReset+1:]
}

// taggedEvent injects a task name ahead of an event's own fields, the
// shape of every line `events` emits for its non-follow output.
type taggedEvent struct {
	Task string `json:"task"`
	domain.Event
}

// writeStatus re-reads task's freshly mutated status and writes it as the
// command's JSON result, the common tail of start/stop/reset/done.
func writeStatus(cmd *cobra.Command, app App, task string) error {
	def, _, err := app.TaskDefinition(task)
	if err != nil {
		return err
	}
	def.Name = task
	view, err := statusview.Build(cmd.Context(), app.Project, app.Config, app.Log, app.Viewport, def)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), view)
}
