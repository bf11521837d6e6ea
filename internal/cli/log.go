package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/seqctl/seqctl/internal/domain"
)

// AddLogCommand registers `seqctl log`.
func AddLogCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "log <task>",
		Short: "Print a task's raw event log as JSONL",
		Args:  cobra.ExactArgs(1),
		RunE:  runLog,
	}
	cmd.Flags().Bool("all-runs", false, "include events from before the most recent reset")
	root.AddCommand(cmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	task := args[0]
	allRuns, _ := cmd.Flags().GetBool("all-runs")

	app, err := loadApp(projectFlag(cmd))
	if err != nil {
		return err
	}
	events, err := app.Log.Read(task)
	if err != nil {
		return err
	}
	if !allRuns {
		events = currentRunEvents(events)
	}
	return writeEventLines(cmd.OutOrStdout(), events)
}

// writeEventLines writes one JSON object per line, the shape `log` uses
// for its non-follow output.
func writeEventLines(w io.Writer, events []domain.Event) error {
	enc := json.NewEncoder(w)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}
