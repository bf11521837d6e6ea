package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/seqctl/seqctl/internal/constants"
	"github.com/seqctl/seqctl/internal/project"
)

// defaultConfig is the config.jsonc written by `seqctl init`: a single
// "default" workflow with a gate step, so a freshly initialized project
// has something `seqctl create`+`seqctl start` can exercise immediately.
const defaultConfig = `{
  // Edit this file to describe your own workflows.
  "schema_version": "` + constants.ConfigSchemaVersion + `",
  "workflows": {
    "default": {
      "steps": [
        {"name": "review"}, // gate: advances only on "seqctl done"
      ],
    },
  },
}
`

// AddInitCommand registers `seqctl init`.
func AddInitCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create a project skeleton (.seqctl/config.jsonc, tasks/, logs/, streams/)",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	})
}

func runInit(cmd *cobra.Command, _ []string) error {
	p, err := project.Init(startDir(projectFlag(cmd)))
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.ConfigPath(), []byte(defaultConfig), constants.FilePerm); err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), map[string]string{
		"project_root": p.Root,
		"seqctl_dir":   p.SeqctlDir,
	})
}
