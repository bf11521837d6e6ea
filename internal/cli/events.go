package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/seqctl/seqctl/internal/project"
	"github.com/seqctl/seqctl/internal/waiter"
)

// AddEventsCommand registers `seqctl events`.
func AddEventsCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "events [task]",
		Short: "Print every task's events tagged by task name, or follow new ones as they're appended",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEvents,
	}
	cmd.Flags().Bool("follow", false, "keep streaming new events as they're appended")
	cmd.Flags().Bool("all-runs", false, "include events from before each task's most recent reset")
	root.AddCommand(cmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	allRuns, _ := cmd.Flags().GetBool("all-runs")
	follow, _ := cmd.Flags().GetBool("follow")

	app, err := loadApp(projectFlag(cmd))
	if err != nil {
		return err
	}

	names, err := eventTaskNames(app, args)
	if err != nil {
		return err
	}

	if !follow {
		return writeTaggedHistory(cmd.OutOrStdout(), app, names, allRuns)
	}
	return followEvents(cmd, app, names)
}

func eventTaskNames(app App, args []string) ([]string, error) {
	if len(args) == 1 {
		return args, nil
	}
	return project.ListTaskNames(app.Project)
}

func writeTaggedHistory(w io.Writer, app App, names []string, allRuns bool) error {
	enc := json.NewEncoder(w)
	for _, name := range names {
		events, err := app.Log.Read(name)
		if err != nil {
			return err
		}
		if !allRuns {
			events = currentRunEvents(events)
		}
		for _, e := range events {
			if err := enc.Encode(taggedEvent{Task: name, Event: e}); err != nil {
				return fmt.Errorf("failed to encode event: %w", err)
			}
		}
	}
	return nil
}

// followEvents fans a waiter.Stream per task into one output, writing each
// line as it arrives until the command's context is canceled. Lines from
// one task keep their order; lines from different tasks are interleaved
// as they arrive, with no ordering across tasks.
func followEvents(cmd *cobra.Command, app App, names []string) error {
	ctx := cmd.Context()
	errc := make(chan error, len(names))
	merged := make(chan waiter.Line)

	for _, name := range names {
		lines := waiter.Stream(ctx, name, app.Log.Path(name), errc)
		go func() {
			for line := range lines {
				select {
				case merged <- line:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return err
		case line := <-merged:
			if err := enc.Encode(line); err != nil {
				return fmt.Errorf("failed to encode event: %w", err)
			}
		}
	}
}
