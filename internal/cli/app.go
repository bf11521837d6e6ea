package cli

import (
	"os"

	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/eventlog"
	"github.com/seqctl/seqctl/internal/project"
	"github.com/seqctl/seqctl/internal/viewport"
	"github.com/seqctl/seqctl/internal/workflow"
)

// App bundles the resolved project and the components every task command
// needs: the event log, the viewport backend, and a workflow Driver wired
// to both.
type App struct {
	Project  project.Project
	Config   project.Config
	Log      *eventlog.Log
	Viewport viewport.Driver
	Driver   workflow.Driver
}

// startDir resolves the directory to begin the .seqctl upward walk from:
// the --project flag if given, otherwise the working directory.
func startDir(projectFlag string) string {
	if projectFlag != "" {
		return projectFlag
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// resolveProjectDir locates .seqctl for logger setup alone, tolerating a
// project that does not exist yet (e.g. before `seqctl init`).
func resolveProjectDir(projectFlag string) string {
	p, err := project.Find(startDir(projectFlag))
	if err != nil {
		return ""
	}
	return p.SeqctlDir
}

// loadApp resolves the project, loads its config, and wires the event
// log, viewport driver, and workflow Driver shared by every task command.
func loadApp(projectFlag string) (App, error) {
	p, err := project.Find(startDir(projectFlag))
	if err != nil {
		return App{}, err
	}
	cfg, err := project.LoadConfig(p)
	if err != nil {
		return App{}, err
	}

	log := eventlog.New(p.LogsDir())
	vp := viewport.TmuxDriver{}
	driver := workflow.New(log, vp).WithProject(p)

	return App{Project: p, Config: cfg, Log: log, Viewport: vp, Driver: driver}, nil
}

// TaskDefinition loads a task's definition and resolves its workflow in
// one step, the pair almost every command needs before it can act.
func (a App) TaskDefinition(name string) (domain.TaskDefinition, domain.Workflow, error) {
	def, err := project.LoadTaskDefinition(a.Project, name)
	if err != nil {
		return domain.TaskDefinition{}, domain.Workflow{}, err
	}
	wf, err := a.Config.Workflow(def.Workflow)
	if err != nil {
		return domain.TaskDefinition{}, domain.Workflow{}, err
	}
	return def, wf, nil
}

// WorkflowIndex builds the (workflows, workflowOf) pair Driver.Start needs
// to validate a task's dependencies, by loading every dependency's own
// task definition.
func (a App) WorkflowIndex(depends []string) (map[string]domain.Workflow, map[string]string, error) {
	workflows := map[string]domain.Workflow{}
	workflowOf := map[string]string{}
	for _, dep := range depends {
		def, wf, err := a.TaskDefinition(dep)
		if err != nil {
			return nil, nil, err
		}
		name := def.Workflow
		if name == "" {
			name = "default"
		}
		workflows[name] = wf
		workflowOf[dep] = name
	}
	return workflows, workflowOf, nil
}
