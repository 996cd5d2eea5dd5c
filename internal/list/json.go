package list

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/worktrunk/wt/internal/facts"
)

// jsonDiff is an added/deleted pair in the stable output schema.
type jsonDiff struct {
	Added   uint32 `json:"added"`
	Deleted uint32 `json:"deleted"`
}

// jsonRow is the stable per-row schema of `wt list --format=json`. Fields
// that do not apply are null, never zero-valued stand-ins; the optional
// upstream, PR, CI and URL fields are omitted instead.
type jsonRow struct {
	Branch                  string    `json:"branch"`
	Path                    *string   `json:"path"`
	Kind                    string    `json:"kind"`
	HeadCommit              string    `json:"head_commit"`
	Timestamp               int64     `json:"timestamp"`
	Message                 string    `json:"message"`
	IsPrimary               bool      `json:"is_primary"`
	IsCurrent               bool      `json:"is_current"`
	WorkingTreeDiff         *jsonDiff `json:"working_tree_diff"`
	BranchDiff              *jsonDiff `json:"branch_diff"`
	WorkingTreeDiffWithMain *jsonDiff `json:"working_tree_diff_with_main"`
	Ahead                   *uint32   `json:"ahead"`
	Behind                  *uint32   `json:"behind"`
	UpstreamRemote          *string   `json:"upstream_remote,omitempty"`
	UpstreamAhead           *uint32   `json:"upstream_ahead,omitempty"`
	UpstreamBehind          *uint32   `json:"upstream_behind,omitempty"`
	HasConflicts            *bool     `json:"has_conflicts"`
	WorktreeState           *string   `json:"worktree_state"`
	PRStatus                *string   `json:"pr_status,omitempty"`
	CIStatus                *string   `json:"ci_status,omitempty"`
	IsStale                 bool      `json:"is_stale"`
	URL                     *string   `json:"url,omitempty"`
	URLLive                 *bool     `json:"url_live,omitempty"`
}

// runJSON fills the explicit schema with the same collectors the table
// uses, then writes one document to primary output. Fact-level errors
// leave fields null and never fail the command.
func runJSON(ctx context.Context, deps Deps, opts Options, pre *preSkeleton) error {
	fctx := &facts.Context{
		Git:           deps.Git,
		Cache:         deps.Cache,
		Config:        deps.Config,
		DefaultBranch: pre.defaultBranch,
		Forge:         facts.NewForge(deps.Git.RepoRoot()),
	}

	out := make([]jsonRow, len(pre.rows))
	var mu sync.Mutex
	pool, pctx := errgroup.WithContext(ctx)
	pool.SetLimit(workerCount(deps.Config.CollectorCap))
	for _, row := range pre.rows {
		row := row
		pool.Go(func() error {
			if pctx.Err() != nil {
				return nil
			}
			jr := buildJSONRow(fctx, deps, opts, pre, row)
			mu.Lock()
			out[row.ID] = jr
			mu.Unlock()
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return brokenPipeOK(deps.Out.Data(string(data)))
}

func buildJSONRow(fctx *facts.Context, deps Deps, opts Options, pre *preSkeleton, row Row) jsonRow {
	target := facts.Target{
		Branch:       row.Branch,
		Commit:       row.Head,
		WorktreePath: row.Path,
		Upstream:     row.Upstream,
	}
	jr := jsonRow{
		Branch:     row.Branch,
		Kind:       "branch",
		HeadCommit: row.Head,
		Timestamp:  row.Timestamp,
		Message:    row.Subject,
		IsPrimary:  row.IsMain,
		IsCurrent:  row.IsCurrent,
	}
	if row.Kind == RowWorktree {
		jr.Kind = "worktree"
		path := row.Path
		jr.Path = &path
		if state := deps.Git.WorktreeState(row.Path); state != "" {
			jr.WorktreeState = &state
		}
		if added, deleted, err := deps.Git.DiffStat(row.Path, "HEAD"); err == nil {
			jr.WorkingTreeDiff = &jsonDiff{Added: added, Deleted: deleted}
		}
		if !row.IsMain {
			if added, deleted, err := deps.Git.DiffStat(row.Path, pre.defaultBranch); err == nil {
				jr.WorkingTreeDiffWithMain = &jsonDiff{Added: added, Deleted: deleted}
			}
		}
	}
	if row.Branch != "" && !row.IsMain {
		if rec, err := facts.Collect(fctx, facts.MainDivergence(), target); err == nil && rec.Value.Divergence != nil {
			jr.Ahead = &rec.Value.Divergence.Ahead
			jr.Behind = &rec.Value.Divergence.Behind
		}
		if rec, err := facts.Collect(fctx, facts.MainDiffstat(), target); err == nil && rec.Value.Diff != nil {
			jr.BranchDiff = &jsonDiff{Added: rec.Value.Diff.Added, Deleted: rec.Value.Diff.Deleted}
		}
		if rec, err := facts.Collect(fctx, facts.ConflictsWithMain(), target); err == nil && rec.Value.Bool != nil {
			jr.HasConflicts = rec.Value.Bool
		}
		if merged, err := deps.Git.CommitIsAncestorOf(row.Head, pre.defaultBranch); err == nil && merged {
			jr.IsStale = true
		}
	}
	if row.Upstream != "" {
		if rec, err := facts.Collect(fctx, facts.UpstreamDivergence(), target); err == nil && rec.Value.Divergence != nil {
			remote := remoteName(row.Upstream)
			jr.UpstreamRemote = &remote
			jr.UpstreamAhead = &rec.Value.Divergence.Ahead
			jr.UpstreamBehind = &rec.Value.Divergence.Behind
		}
	}
	if opts.Full {
		if rec, err := facts.Collect(fctx, facts.PRStatus(), target); err == nil && rec.Value.PR != nil {
			state := rec.Value.PR.State
			if state != "" {
				jr.PRStatus = &state
			}
		}
		if rec, err := facts.Collect(fctx, facts.CIStatus(), target); err == nil && rec.Value.CI != "" && rec.Value.CI != facts.CINone {
			ci := string(rec.Value.CI)
			jr.CIStatus = &ci
		}
	}
	if url, ok := pre.urls[row.ID]; ok {
		jr.URL = &url
		if rec, err := facts.Collect(fctx, facts.URLLive(url), target); err == nil && rec.Value.Bool != nil {
			jr.URLLive = rec.Value.Bool
		}
	}
	return jr
}

// ParseJSON decodes the output of runJSON; tests use it for the round-trip
// property.
func ParseJSON(data []byte) ([]jsonRow, error) {
	var rows []jsonRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		return nil, errors.New("empty document")
	}
	return rows, nil
}
