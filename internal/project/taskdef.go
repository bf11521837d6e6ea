package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/seqctl/seqctl/internal/constants"
	"github.com/seqctl/seqctl/internal/domain"
	"github.com/seqctl/seqctl/internal/errors"
)

const frontmatterDelim = "---"

// ListTaskNames returns the names of every task definition under
// tasks/, derived from file name (without the .md suffix), sorted
// lexically for stable CLI/HTTP output.
func ListTaskNames(p Project) ([]string, error) {
	entries, err := os.ReadDir(p.TasksDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list task definitions: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names, nil
}

// LoadTaskDefinition reads and parses a task definition file: YAML
// frontmatter delimited by a leading and trailing "---" line, followed by
// a free-form markdown body.
func LoadTaskDefinition(p Project, name string) (domain.TaskDefinition, error) {
	raw, err := os.ReadFile(p.TaskDefinitionPath(name)) //#nosec G304 -- path constructed from resolved project root and a validated task name
	if err != nil {
		if os.IsNotExist(err) {
			return domain.TaskDefinition{}, errors.ErrTaskNotFound
		}
		return domain.TaskDefinition{}, fmt.Errorf("failed to read task definition: %w", err)
	}
	return ParseTaskDefinition(string(raw))
}

// ParseTaskDefinition splits a task definition's raw text into frontmatter
// and body and decodes the frontmatter as YAML.
func ParseTaskDefinition(raw string) (domain.TaskDefinition, error) {
	front, body, err := splitFrontmatter(raw)
	if err != nil {
		return domain.TaskDefinition{}, err
	}

	var def domain.TaskDefinition
	if err := yaml.Unmarshal([]byte(front), &def); err != nil {
		return domain.TaskDefinition{}, errors.Wrap(errors.ErrInvalidTaskDefinition, err.Error())
	}
	def.Body = body
	return def, nil
}

// splitFrontmatter separates a leading "---\n...\n---\n" block from the
// remaining body text.
func splitFrontmatter(raw string) (frontmatter, body string, err error) {
	lines := strings.Split(raw, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontmatterDelim {
		return "", "", errors.Wrap(errors.ErrInvalidTaskDefinition, "missing frontmatter delimiter")
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelim {
			frontmatter = strings.Join(lines[1:i], "\n")
			body = strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
			return frontmatter, body, nil
		}
	}
	return "", "", errors.Wrap(errors.ErrInvalidTaskDefinition, "unterminated frontmatter block")
}

// SaveTaskDefinition writes a task definition back to disk, re-serializing
// its frontmatter. Used by `seqctl create`.
func SaveTaskDefinition(p Project, def domain.TaskDefinition) error {
	front, err := yaml.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode task definition: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelim)
	b.WriteString("\n")
	b.Write(front)
	b.WriteString(frontmatterDelim)
	b.WriteString("\n")
	if def.Body != "" {
		b.WriteString(def.Body)
	}

	if err := os.MkdirAll(p.TasksDir(), constants.DirPerm); err != nil {
		return err
	}
	return os.WriteFile(p.TaskDefinitionPath(def.Name), []byte(b.String()), constants.FilePerm) //#nosec G306 -- task definitions are not secrets
}
