// Package cli provides the seqctl command-line interface: a cobra command
// tree where every command prints machine-parseable JSON to stdout on
// success, and leaves error formatting and exit-code selection to the
// caller of Execute.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// GlobalFlags holds flags available to every seqctl subcommand.
type GlobalFlags struct {
	// Project overrides the project root lookup (default: walk upward
	// from the working directory for a .seqctl directory).
	Project string
	Verbose bool
	Quiet   bool
}

// AddGlobalFlags registers the persistent flags shared by every command.
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVar(&flags.Project, "project", "", "project root (default: walk up from cwd for .seqctl)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "enable debug-level logging")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-essential logging")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// BindGlobalFlags binds global flags to Viper so SEQCTL_PROJECT,
// SEQCTL_VERBOSE, and SEQCTL_QUIET environment variables can also set
// them, matching the ${name}/SEQCTL_<NAME> convention used for step
// variables.
func BindGlobalFlags(v *viper.Viper, cmd *cobra.Command) error {
	root := cmd.Root().PersistentFlags()
	for _, name := range []string{"project", "verbose", "quiet"} {
		if err := v.BindPFlag(name, root.Lookup(name)); err != nil {
			return err
		}
	}
	v.SetEnvPrefix("SEQCTL")
	v.AutomaticEnv()
	for _, name := range []string{"project", "verbose", "quiet"} {
		if f := root.Lookup(name); !f.Changed && v.IsSet(name) {
			if err := root.Set(name, v.GetString(name)); err != nil {
				return err
			}
		}
	}
	return nil
}
