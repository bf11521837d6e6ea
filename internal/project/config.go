package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/errors"
)

// Config is the parsed contents of config.jsonc: the project's workflow
// definitions and reserved hook bindings. Hooks are accepted and
// round-tripped but never invoked; no lifecycle in this system currently
// fires them.
type Config struct {
	SchemaVersion string                    `json:"schema_version,omitempty"`
	Workflows     map[string]domain.Workflow `json:"workflows"`
	Hooks         map[string]string         `json:"hooks,omitempty"`
}

// LoadConfig reads and parses config.jsonc from p, tolerating // and /*
// */ comments and trailing commas via hujson before standard JSON
// unmarshaling.
func LoadConfig(p Project) (Config, error) {
	raw, err := os.ReadFile(p.ConfigPath()) //#nosec G304 -- path constructed from resolved project root
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.ErrConfigNotFound
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	std, err := hujson.Standardize(raw)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	var cfg Config
	if err := json.Unmarshal(std, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	for name, wf := range cfg.Workflows {
		wf.Name = name
		if err := wf.Validate(); err != nil {
			return Config{}, fmt.Errorf("workflow %q: %w", name, err)
		}
		cfg.Workflows[name] = wf
	}

	return cfg, nil
}

// Workflow looks up a named workflow, defaulting to "default" when name is
// empty.
func (c Config) Workflow(name string) (domain.Workflow, error) {
	if name == "" {
		name = "default"
	}
	wf, ok := c.Workflows[name]
	if !ok {
		return domain.Workflow{}, errors.Wrapf(errors.ErrInvalidWorkflow, "unknown workflow %q", name)
	}
	return wf, nil
}
