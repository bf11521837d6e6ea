package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/errors"
	"github.com/seqctl/seqctl/internal/project"
)

// AddCreateCommand registers `seqctl create`.
func AddCreateCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a task definition",
		Args:  cobra.ExactArgs(1),
		RunE:  runCreate,
	}
	cmd.Flags().StringSlice("depends", nil, "task names this task depends on")
	cmd.Flags().StringSlice("skip", nil, "step names to auto-skip for this task")
	cmd.Flags().String("workflow", "", "workflow name (default: \"default\")")
	root.AddCommand(cmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := domain.ValidateTaskName(name); err != nil {
		return err
	}

	p, err := project.Find(startDir(projectFlag(cmd)))
	if err != nil {
		return err
	}

	if _, err := os.Stat(p.TaskDefinitionPath(name)); err == nil {
		return errors.ErrTaskExists
	}

	depends, _ := cmd.Flags().GetStringSlice("depends")
	skip, _ := cmd.Flags().GetStringSlice("skip")
	workflowName, _ := cmd.Flags().GetString("workflow")

	cfg, err := project.LoadConfig(p)
	if err != nil {
		return err
	}
	wf, err := cfg.Workflow(workflowName)
	if err != nil {
		return err
	}
	if err := wf.ValidateSkipList(skip); err != nil {
		return err
	}

	def := domain.TaskDefinition{
		Name:     name,
		Workflow: workflowName,
		Depends:  depends,
		Skip:     skip,
	}
	if err := project.SaveTaskDefinition(p, def); err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), def)
}
