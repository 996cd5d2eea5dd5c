// Package facts computes per-worktree and per-branch facts for the list
// pipeline. Each collector is one named task; collectors never touch the
// terminal and surface results to the orchestrator by value.
package facts

import (
	"encoding/json"
	"time"

	"github.com/worktrunk/wt/internal/cache"
	"github.com/worktrunk/wt/internal/config"
	"github.com/worktrunk/wt/internal/gitx"
)

// Kind is the closed set of fact kinds.
type Kind string

const (
	KindWorkingTree        Kind = "working_tree"
	KindMainDivergence     Kind = "main_divergence"
	KindUpstreamDivergence Kind = "upstream_divergence"
	KindMainDiffstat       Kind = "main_diffstat"
	KindPRStatus           Kind = "pr_status"
	KindCIStatus           Kind = "ci_status"
	KindURL                Kind = "url"
	KindURLLive            Kind = "url_live"
	KindStatusMarker       Kind = "status_marker"
	KindIntegrationTarget  Kind = "integration_target"
	KindPreviousBranch     Kind = "previous_branch"
	KindConflictsWithMain  Kind = "conflicts_with_main"
)

// Divergence is an ahead/behind commit count pair.
type Divergence struct {
	Ahead  uint32 `json:"ahead"`
	Behind uint32 `json:"behind"`
}

// Diff is added/deleted line totals.
type Diff struct {
	Added   uint32 `json:"added"`
	Deleted uint32 `json:"deleted"`
}

// PRInfo is the forge's view of a branch's pull request.
type PRInfo struct {
	State        string `json:"state"`
	ChecksPassed int    `json:"checks_passed"`
	ChecksTotal  int    `json:"checks_total"`
	URL          string `json:"url"`
}

// CIState is the pipeline-status enum for the CI column.
type CIState string

const (
	CINone       CIState = "none"
	CIInProgress CIState = "in_progress"
	CIFail       CIState = "fail"
	CISuccess    CIState = "success"
)

// Value is the payload of one fact record; which fields are populated
// depends on the record's kind (the Status cell's record carries Status,
// Text and State together). The flat shape keeps cache entries plain JSON.
type Value struct {
	Status     *gitx.WorkingTreeStatus `json:"status,omitempty"`
	Divergence *Divergence             `json:"divergence,omitempty"`
	Diff       *Diff                   `json:"diff,omitempty"`
	Bool       *bool                   `json:"bool,omitempty"`
	Text       string                  `json:"text,omitempty"`
	State      string                  `json:"state,omitempty"`
	Upstream   string                  `json:"upstream,omitempty"`
	PR         *PRInfo                 `json:"pr,omitempty"`
	CI         CIState                 `json:"ci,omitempty"`
}

// Record is one computed fact.
type Record struct {
	Branch            string
	Kind              Kind
	Value             Value
	ComputedAt        time.Time
	DerivedFromCommit string
}

// Target identifies what a collector runs against: a worktree row (with a
// path) or a branch-only row (without one).
type Target struct {
	Branch       string
	Commit       string
	WorktreePath string
	Upstream     string
}

// Context bundles the collaborators every collector needs.
type Context struct {
	Git           *gitx.Gateway
	Cache         *cache.Cache
	Config        config.Config
	DefaultBranch string
	Forge         *Forge
}

// Collector computes one fact kind. TTL zero disables caching.
type Collector struct {
	Kind Kind
	TTL  time.Duration
	Run  func(ctx *Context, t Target) (Value, error)
}

// Collect runs a collector through the cache: a valid entry is returned
// as-is, a miss triggers computation and a write-back. Cache I/O failures
// degrade to a miss or a dropped write, never to a collection error.
func Collect(ctx *Context, col Collector, t Target) (Record, error) {
	record := Record{
		Branch:            t.Branch,
		Kind:              col.Kind,
		ComputedAt:        time.Now(),
		DerivedFromCommit: t.Commit,
	}
	key := cache.Key{Branch: t.Branch, Commit: t.Commit, Kind: string(col.Kind)}
	cacheable := col.TTL > 0 && ctx.Cache != nil && t.Branch != "" && t.Commit != ""
	if cacheable {
		if data, ok := ctx.Cache.Get(key); ok {
			var v Value
			if err := json.Unmarshal(data, &v); err == nil {
				record.Value = v
				return record, nil
			}
		}
	}
	v, err := col.Run(ctx, t)
	if err != nil {
		return Record{}, err
	}
	record.Value = v
	if cacheable {
		if data, err := json.Marshal(v); err == nil {
			// A failed write is non-fatal; the value still flows upward.
			_ = ctx.Cache.Put(key, data, col.TTL)
		}
	}
	return record, nil
}
