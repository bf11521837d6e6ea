package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BuildInfo carries version metadata injected at build time via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "seqctl",
		Short:   "A resumable, event-sourced step sequencer for per-task workflows",
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			initLogger(resolveProjectDir(flags.Project), flags.Verbose, flags.Quiet)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddInitCommand(cmd)
	AddCreateCommand(cmd)
	AddListCommand(cmd)
	AddStatusCommand(cmd)
	AddStartCommand(cmd)
	AddStopCommand(cmd)
	AddResetCommand(cmd)
	AddDoneCommand(cmd)
	AddWaitCommand(cmd)
	AddLogCommand(cmd)
	AddEventsCommand(cmd)
	AddServeCommand(cmd)
	AddValidateCommand(cmd)
	AddRunCommand(cmd)
	AddCompletionCommand(cmd)

	return cmd
}

func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the given context and build info.
// On a non-nil error the caller is responsible for printing a JSON error
// object (WriteError) and exiting with ExitCodeForError(err).
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, info)
	return cmd.ExecuteContext(ctx) //nolint:wrapcheck // top-level dispatch; caller formats the error
}
