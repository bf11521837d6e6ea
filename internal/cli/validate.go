package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seqctl/seqctl/internal/errors"
	"github.com/seqctl/seqctl/internal/project"
)

// AddValidateCommand registers `seqctl validate`.
func AddValidateCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check config.jsonc and every task definition for structural errors",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	})
}

func runValidate(cmd *cobra.Command, _ []string) error {
	p, err := project.Find(startDir(projectFlag(cmd)))
	if err != nil {
		return err
	}

	// LoadConfig already rejects duplicate step names, negative
	// max_retries, and unknown on_fail values per workflow.
	cfg, err := project.LoadConfig(p)
	if err != nil {
		return err
	}

	names, err := project.ListTaskNames(p)
	if err != nil {
		return err
	}

	var problems []string
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}

	for _, name := range names {
		def, err := project.LoadTaskDefinition(p, name)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		wf, err := cfg.Workflow(def.Workflow)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if err := wf.ValidateSkipList(def.Skip); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
		}
		for _, dep := range def.Depends {
			if !known[dep] {
				problems = append(problems, fmt.Sprintf("%s: depends on unknown task %q", name, dep))
			}
			if dep == name {
				problems = append(problems, fmt.Sprintf("%s: depends on itself", name))
			}
		}
	}

	if len(problems) > 0 {
		return errors.Wrapf(errors.ErrInvalidWorkflow, "%d problem(s) found: %v", len(problems), problems)
	}

	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"workflows": len(cfg.Workflows),
		"tasks":     len(names),
		"ok":        true,
	})
}
