// Package config loads worktrunk's user and project configuration and
// expands the worktree-path and URL templates. Template mechanics beyond
// this interface are an external concern.
package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/worktrunk/wt/internal/shellio"
)

// DefaultWorktreePath places sibling directories next to the repository,
// one per branch.
const DefaultWorktreePath = "../{{.RepoName}}.{{.BranchSlug}}"

type Config struct {
	// WorktreePath is the template for new worktree locations, resolved
	// relative to the repository root.
	WorktreePath string `yaml:"worktree-path,omitempty"`
	// URLTemplate, when set, allocates the URL column in `wt list` and is
	// expanded per branch.
	URLTemplate string `yaml:"url-template,omitempty"`
	// ListFull enables the --full column set by default.
	ListFull bool `yaml:"list-full,omitempty"`
	// CollectorCap bounds the list worker pool. Zero means the default.
	CollectorCap int `yaml:"collector-cap,omitempty"`
}

func userConfigPath() (string, error) {
	home, err := shellio.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wt", "config.yaml"), nil
}

// Load reads the user config and overlays the project config (.wt.yaml at
// the repository root). Missing files are not errors.
func Load(repoRoot string) (Config, error) {
	var cfg Config
	userPath, err := userConfigPath()
	if err == nil {
		if err := loadFile(userPath, &cfg); err != nil {
			return Config{}, err
		}
	}
	if strings.TrimSpace(repoRoot) != "" {
		var project Config
		if err := loadFile(filepath.Join(repoRoot, ".wt.yaml"), &project); err != nil {
			return Config{}, err
		}
		cfg = overlay(cfg, project)
	}
	if strings.TrimSpace(cfg.WorktreePath) == "" {
		cfg.WorktreePath = DefaultWorktreePath
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func overlay(base, project Config) Config {
	out := base
	if strings.TrimSpace(project.WorktreePath) != "" {
		out.WorktreePath = project.WorktreePath
	}
	if strings.TrimSpace(project.URLTemplate) != "" {
		out.URLTemplate = project.URLTemplate
	}
	if project.ListFull {
		out.ListFull = true
	}
	if project.CollectorCap > 0 {
		out.CollectorCap = project.CollectorCap
	}
	return out
}

// templateData is what path and URL templates can reference. Expansion is a
// pure function of the branch and template.
type templateData struct {
	Branch     string
	BranchSlug string
	RepoName   string
}

func newTemplateData(repoRoot, branch string) templateData {
	return templateData{
		Branch:     branch,
		BranchSlug: strings.ReplaceAll(branch, "/", "-"),
		RepoName:   filepath.Base(repoRoot),
	}
}

func expand(tmpl string, data templateData) (string, error) {
	t, err := template.New("wt").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExpandWorktreePath resolves the worktree location for branch to an
// absolute path.
func (c Config) ExpandWorktreePath(repoRoot, branch string) (string, error) {
	expanded, err := expand(c.WorktreePath, newTemplateData(repoRoot, branch))
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return filepath.Clean(expanded), nil
	}
	return filepath.Clean(filepath.Join(repoRoot, expanded)), nil
}

// ExpandURL expands the URL template for branch. An empty template yields
// an empty URL and no URL column.
func (c Config) ExpandURL(repoRoot, branch string) (string, error) {
	if strings.TrimSpace(c.URLTemplate) == "" {
		return "", nil
	}
	return expand(c.URLTemplate, newTemplateData(repoRoot, branch))
}
