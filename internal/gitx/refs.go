package gitx

import (
	"fmt"
	"strconv"
	"strings"
)

// CommitMeta is the timestamp and subject of one commit.
type CommitMeta struct {
	Timestamp int64
	Subject   string
}

// BatchCommitMeta fetches timestamp and subject for every commit in one git
// invocation. Unknown commits are simply absent from the result.
func (g *Gateway) BatchCommitMeta(commits []string) (map[string]CommitMeta, error) {
	meta := make(map[string]CommitMeta, len(commits))
	unique := make([]string, 0, len(commits))
	seen := make(map[string]bool, len(commits))
	for _, c := range commits {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		unique = append(unique, c)
	}
	if len(unique) == 0 {
		return meta, nil
	}
	args := append([]string{"log", "--no-walk=unsorted", "--format=%H%x1f%ct%x1f%s"}, unique...)
	out, err := g.output(g.repoRoot, args...)
	if err != nil {
		return nil, err
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\x1f", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("unexpected commit meta line: %q", line)
		}
		ts, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad commit timestamp %q: %w", parts[1], err)
		}
		meta[parts[0]] = CommitMeta{Timestamp: ts, Subject: parts[2]}
	}
	return meta, nil
}

// BranchRecord is one entry of a branch-only listing: no working-directory
// state attached.
type BranchRecord struct {
	Name     string
	Commit   string
	Upstream string
	IsRemote bool
}

// BranchesForEach lists branches under refPattern (refs/heads or
// refs/remotes) in one for-each-ref call.
func (g *Gateway) BranchesForEach(refPattern string) ([]BranchRecord, error) {
	out, err := g.output(g.repoRoot,
		"for-each-ref",
		"--format=%(refname:short)%1f%(objectname)%1f%(upstream:short)",
		refPattern,
	)
	if err != nil {
		return nil, err
	}
	isRemote := strings.HasPrefix(refPattern, "refs/remotes")
	var records []BranchRecord
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\x1f", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("unexpected for-each-ref line: %q", line)
		}
		name := strings.TrimSpace(parts[0])
		if name == "" || (isRemote && strings.HasSuffix(name, "/HEAD")) {
			continue
		}
		records = append(records, BranchRecord{
			Name:     name,
			Commit:   strings.TrimSpace(parts[1]),
			Upstream: strings.TrimSpace(parts[2]),
			IsRemote: isRemote,
		})
	}
	return records, nil
}

// RevListLeftRight counts commits reachable from only one side of
// base...head: behind is the left (base-only) count, ahead the right.
func (g *Gateway) RevListLeftRight(base, head string) (ahead, behind uint32, err error) {
	out, err := g.output(g.repoRoot, "rev-list", "--left-right", "--count", base+"..."+head)
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output: %q", out)
	}
	left, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return 0, 0, err
	}
	right, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, 0, err
	}
	return uint32(right), uint32(left), nil
}

// UpstreamOf returns the configured upstream ref of branch, or "".
func (g *Gateway) UpstreamOf(branch string) string {
	out, err := g.output(g.repoRoot, "rev-parse", "--abbrev-ref", branch+"@{upstream}")
	if err != nil {
		return ""
	}
	return out
}

// CommitIsAncestorOf reports whether a is an ancestor of b.
func (g *Gateway) CommitIsAncestorOf(a, b string) (bool, error) {
	code, err := g.exitCode(g.repoRoot, "merge-base", "--is-ancestor", a, b)
	if err != nil {
		return false, err
	}
	switch code {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, fmt.Errorf("merge-base --is-ancestor %s %s: exit %d", a, b, code)
	}
}

// MergeBase returns the merge base of a and b.
func (g *Gateway) MergeBase(a, b string) (string, error) {
	return g.output(g.repoRoot, "merge-base", a, b)
}

// MergeTreeWouldConflict runs the non-materializing three-way merge
// simulation. Exit 0 means clean, exit 1 means the merge would conflict.
func (g *Gateway) MergeTreeWouldConflict(a, b string) (bool, error) {
	code, err := g.exitCode(g.repoRoot, "merge-tree", "--write-tree", "--name-only", a, b)
	if err != nil {
		return false, err
	}
	switch code {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("merge-tree %s %s: exit %d", a, b, code)
	}
}

// ResolveCommit resolves a ref to a full commit id.
func (g *Gateway) ResolveCommit(ref string) (string, error) {
	return g.output(g.repoRoot, "rev-parse", "--verify", ref+"^{commit}")
}

// RemoteURL returns the fetch URL of the named remote, or "".
func (g *Gateway) RemoteURL(remote string) string {
	out, err := g.output(g.repoRoot, "remote", "get-url", remote)
	if err != nil {
		return ""
	}
	return out
}

// Merge merges branch into the branch checked out at dir, fast-forwarding
// when possible.
func (g *Gateway) Merge(dir, branch string, ffOnly bool) error {
	args := []string{"merge", "--no-edit"}
	if ffOnly {
		args = append(args, "--ff-only")
	}
	args = append(args, branch)
	return g.run(dir, args...)
}

// DeleteBranch removes a fully-merged local branch; with force it removes
// the branch even when unmerged.
func (g *Gateway) DeleteBranch(branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	return g.run(g.repoRoot, "branch", flag, branch)
}
