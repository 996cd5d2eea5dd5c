package gitx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// gogitOutput answers a subset of read-only git invocations in-process.
// Returns handled=false to fall back to the git binary; linked worktrees
// always fall back because go-git's linked-worktree emulation is
// incomplete.
func gogitOutput(dir string, args ...string) (string, bool, error) {
	if len(args) == 0 || isLinkedWorktreeDir(dir) {
		return "", false, nil
	}
	switch args[0] {
	case "config":
		if len(args) == 3 && args[1] == "--get" {
			return gogitConfigGet(dir, args[2])
		}
	case "show-ref":
		if len(args) == 4 && args[1] == "--verify" && args[2] == "--quiet" {
			return gogitShowRef(dir, args[3])
		}
	case "rev-parse":
		if len(args) == 3 && args[1] == "--abbrev-ref" && args[2] == "HEAD" {
			return gogitHeadBranch(dir)
		}
	}
	return "", false, nil
}

func isLinkedWorktreeDir(dir string) bool {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return false
	}
	dotGit := filepath.Join(dir, ".git")
	info, err := os.Stat(dotGit)
	if err != nil || info.IsDir() {
		return false
	}
	data, err := os.ReadFile(dotGit)
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(string(data)), "gitdir:")
}

func openGogit(dir string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
}

func gogitConfigGet(dir, key string) (string, bool, error) {
	repo, err := openGogit(dir)
	if err != nil {
		return "", false, nil
	}
	cfg, err := repo.Config()
	if err != nil {
		return "", false, nil
	}
	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return "", false, nil
	}
	section := parts[0]
	name := parts[len(parts)-1]
	subsection := strings.Join(parts[1:len(parts)-1], ".")

	s := cfg.Raw.Section(section)
	if subsection == "" {
		if !s.HasOption(name) {
			return "", true, fmt.Errorf("config key %s not set", key)
		}
		return s.Option(name), true, nil
	}
	if !s.HasSubsection(subsection) {
		return "", true, fmt.Errorf("config key %s not set", key)
	}
	ss := s.Subsection(subsection)
	if !ss.HasOption(name) {
		return "", true, fmt.Errorf("config key %s not set", key)
	}
	return ss.Option(name), true, nil
}

func gogitShowRef(dir, ref string) (string, bool, error) {
	repo, err := openGogit(dir)
	if err != nil {
		return "", false, nil
	}
	if _, err := repo.Reference(plumbing.ReferenceName(ref), true); err != nil {
		return "", true, fmt.Errorf("ref %s not found", ref)
	}
	return "", true, nil
}

func gogitHeadBranch(dir string) (string, bool, error) {
	repo, err := openGogit(dir)
	if err != nil {
		return "", false, nil
	}
	head, err := repo.Head()
	if err != nil {
		return "", false, nil
	}
	if !head.Name().IsBranch() {
		return "HEAD", true, nil
	}
	return head.Name().Short(), true, nil
}
