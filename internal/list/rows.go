// Package list implements the status aggregation and progressive rendering
// pipeline behind `wt list`.
package list

import (
	"sort"
	"strings"

	"github.com/worktrunk/wt/internal/gitx"
)

type RowKind int

const (
	RowWorktree RowKind = iota
	RowBranchOnly
)

// Row is the primary display unit: a worktree row or a branch-only row.
// Everything here is known before the skeleton is drawn; computed facts
// arrive later as cell updates.
type Row struct {
	ID        int
	Kind      RowKind
	Branch    string // empty for a detached head
	Path      string // empty for branch-only rows
	Head      string
	Upstream  string
	Timestamp int64
	Subject   string
	IsMain    bool
	IsCurrent bool
	IsRemote  bool
	Detached  bool
	Locked    bool
	State     string // in-progress operation: rebase, merge, bisect, …
}

// DisplayName is what the Branch column shows.
func (r Row) DisplayName() string {
	if r.Branch != "" {
		return r.Branch
	}
	if r.Detached {
		return "(detached)"
	}
	return "(no branch)"
}

// orderRows fixes the display order for the lifetime of the run: the main
// worktree first, remaining worktrees by last-commit timestamp descending,
// then branch-only rows alphabetically.
func orderRows(rows []Row) []Row {
	var main []Row
	var worktrees []Row
	var branches []Row
	for _, r := range rows {
		switch {
		case r.Kind == RowWorktree && r.IsMain:
			main = append(main, r)
		case r.Kind == RowWorktree:
			worktrees = append(worktrees, r)
		default:
			branches = append(branches, r)
		}
	}
	sort.SliceStable(worktrees, func(i, j int) bool {
		if worktrees[i].Timestamp != worktrees[j].Timestamp {
			return worktrees[i].Timestamp > worktrees[j].Timestamp
		}
		return worktrees[i].Branch < worktrees[j].Branch
	})
	sort.SliceStable(branches, func(i, j int) bool {
		return branches[i].Branch < branches[j].Branch
	})
	out := make([]Row, 0, len(rows))
	out = append(out, main...)
	out = append(out, worktrees...)
	out = append(out, branches...)
	for i := range out {
		out[i].ID = i
	}
	return out
}

// currentRowPath finds the worktree containing cwd, preferring the longest
// matching path so nested worktree layouts resolve to the innermost one.
func currentRowPath(worktrees []gitx.Worktree, cwd string) string {
	cwd = gitx.CanonicalPath(cwd)
	best := ""
	for _, wt := range worktrees {
		if wt.Path == cwd || strings.HasPrefix(cwd, wt.Path+"/") {
			if len(wt.Path) > len(best) {
				best = wt.Path
			}
		}
	}
	return best
}
