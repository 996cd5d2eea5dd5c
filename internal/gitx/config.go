package gitx

import (
	"fmt"
	"strings"
)

// stateNamespace is the tool-owned git config namespace for branch-scoped
// state: status markers, previous-branch pointers, integration targets.
const stateNamespace = "worktrunk.state"

// DefaultBranch resolves the repository's integration branch: an explicit
// worktrunk.default-branch config entry, then origin/HEAD, then the first of
// main/master that exists.
func (g *Gateway) DefaultBranch() (string, error) {
	if v, err := g.output(g.repoRoot, "config", "--get", "worktrunk.default-branch"); err == nil && v != "" {
		return v, nil
	}
	if ref, err := g.output(g.repoRoot, "symbolic-ref", "--short", "refs/remotes/origin/HEAD"); err == nil && ref != "" {
		return strings.TrimPrefix(ref, "origin/"), nil
	}
	for _, candidate := range []string{"main", "master"} {
		if _, err := g.output(g.repoRoot, "show-ref", "--verify", "--quiet", "refs/heads/"+candidate); err == nil {
			return candidate, nil
		}
	}
	// An unborn repository still has a symbolic HEAD naming its branch.
	if ref, err := g.output(g.repoRoot, "symbolic-ref", "--short", "HEAD"); err == nil && ref != "" {
		return ref, nil
	}
	return "main", nil
}

func branchConfigKey(branch, field string) string {
	// Git config subsection names are case-sensitive and may contain
	// slashes, so branch names embed without transformation.
	return fmt.Sprintf("%s.%s.%s", stateNamespace, branch, field)
}

// ReadBranchConfig returns the branch-scoped state value, or "" when the
// key is unset.
func (g *Gateway) ReadBranchConfig(branch, field string) string {
	out, err := g.output(g.repoRoot, "config", "--get", branchConfigKey(branch, field))
	if err != nil {
		return ""
	}
	return out
}

func (g *Gateway) WriteBranchConfig(branch, field, value string) error {
	key := branchConfigKey(branch, field)
	if strings.TrimSpace(value) == "" {
		err := g.run(g.repoRoot, "config", "--unset", key)
		if err != nil && strings.Contains(err.Error(), "exit status 5") {
			// Exit 5: key did not exist. Unsetting an absent key is fine.
			return nil
		}
		return err
	}
	return g.run(g.repoRoot, "config", key, value)
}
