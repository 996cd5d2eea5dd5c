package facts

import (
	"errors"
	"net"
	"net/url"
	"time"
)

const (
	shortTTL  = 2 * time.Minute
	mediumTTL = 6 * time.Hour

	// networkDeadline bounds collectors that leave the machine.
	networkDeadline = 2 * time.Second
)

// ErrNotApplicable marks a fact that does not exist for the target (no
// upstream, no worktree); the orchestrator renders the neutral glyph
// without logging.
var ErrNotApplicable = errors.New("fact not applicable")

func WorkingTreeStatus() Collector {
	return Collector{
		Kind: KindWorkingTree,
		Run: func(ctx *Context, t Target) (Value, error) {
			if t.WorktreePath == "" {
				return Value{}, ErrNotApplicable
			}
			status, err := ctx.Git.PorcelainStatus(t.WorktreePath)
			if err != nil {
				return Value{}, err
			}
			return Value{Status: &status}, nil
		},
	}
}

// RowStatus backs the Status cell: working-tree flags, the user's status
// marker and any in-progress operation, computed as one task so the cell
// resolves exactly once.
func RowStatus() Collector {
	return Collector{
		Kind: KindWorkingTree,
		Run: func(ctx *Context, t Target) (Value, error) {
			v := Value{}
			if t.Branch != "" {
				v.Text = ctx.Git.ReadBranchConfig(t.Branch, "marker")
			}
			if t.WorktreePath == "" {
				if v.Text == "" {
					return Value{}, ErrNotApplicable
				}
				return v, nil
			}
			v.State = ctx.Git.WorktreeState(t.WorktreePath)
			status, err := ctx.Git.PorcelainStatus(t.WorktreePath)
			if err != nil {
				return Value{}, err
			}
			v.Status = &status
			return v, nil
		},
	}
}

func MainDivergence() Collector {
	return Collector{
		Kind: KindMainDivergence,
		Run: func(ctx *Context, t Target) (Value, error) {
			if t.Branch == "" || t.Branch == ctx.DefaultBranch {
				return Value{}, ErrNotApplicable
			}
			ahead, behind, err := ctx.Git.RevListLeftRight(ctx.DefaultBranch, t.Branch)
			if err != nil {
				return Value{}, err
			}
			return Value{Divergence: &Divergence{Ahead: ahead, Behind: behind}}, nil
		},
	}
}

func UpstreamDivergence() Collector {
	return Collector{
		Kind: KindUpstreamDivergence,
		Run: func(ctx *Context, t Target) (Value, error) {
			if t.Branch == "" || t.Upstream == "" {
				return Value{}, ErrNotApplicable
			}
			ahead, behind, err := ctx.Git.RevListLeftRight(t.Upstream, t.Branch)
			if err != nil {
				return Value{}, err
			}
			return Value{
				Divergence: &Divergence{Ahead: ahead, Behind: behind},
				Upstream:   t.Upstream,
			}, nil
		},
	}
}

func MainDiffstat() Collector {
	return Collector{
		Kind: KindMainDiffstat,
		TTL:  mediumTTL,
		Run: func(ctx *Context, t Target) (Value, error) {
			if t.Branch == "" || t.Branch == ctx.DefaultBranch {
				return Value{}, ErrNotApplicable
			}
			// Three-dot diff measures from the merge base, not the tips.
			added, deleted, err := ctx.Git.DiffStat(ctx.Git.RepoRoot(), ctx.DefaultBranch+"..."+t.Branch)
			if err != nil {
				return Value{}, err
			}
			return Value{Diff: &Diff{Added: added, Deleted: deleted}}, nil
		},
	}
}

func ConflictsWithMain() Collector {
	return Collector{
		Kind: KindConflictsWithMain,
		TTL:  mediumTTL,
		Run: func(ctx *Context, t Target) (Value, error) {
			if t.Branch == "" || t.Branch == ctx.DefaultBranch {
				return Value{}, ErrNotApplicable
			}
			conflicts, err := ctx.Git.MergeTreeWouldConflict(ctx.DefaultBranch, t.Branch)
			if err != nil {
				return Value{}, err
			}
			return Value{Bool: &conflicts}, nil
		},
	}
}

func PRStatus() Collector {
	return Collector{
		Kind: KindPRStatus,
		TTL:  shortTTL,
		Run: func(ctx *Context, t Target) (Value, error) {
			if ctx.Forge == nil || t.Branch == "" {
				return Value{}, ErrNotApplicable
			}
			pr, ok, err := ctx.Forge.PRForBranch(t.Branch)
			if err != nil {
				return Value{}, err
			}
			if !ok {
				// No forge CLI or no PR for this branch: data absent, not
				// an error.
				return Value{}, nil
			}
			return Value{PR: &pr}, nil
		},
	}
}

func CIStatus() Collector {
	return Collector{
		Kind: KindCIStatus,
		TTL:  shortTTL,
		Run: func(ctx *Context, t Target) (Value, error) {
			if ctx.Forge == nil || t.Branch == "" || t.Upstream == "" {
				return Value{}, ErrNotApplicable
			}
			state, err := ctx.Forge.CIForBranch(t.Branch)
			if err != nil {
				return Value{}, err
			}
			return Value{CI: state}, nil
		},
	}
}

func URL() Collector {
	return Collector{
		Kind: KindURL,
		Run: func(ctx *Context, t Target) (Value, error) {
			if t.Branch == "" {
				return Value{}, ErrNotApplicable
			}
			expanded, err := ctx.Config.ExpandURL(ctx.Git.RepoRoot(), t.Branch)
			if err != nil {
				return Value{}, err
			}
			return Value{Text: expanded}, nil
		},
	}
}

func URLLive(rawURL string) Collector {
	return Collector{
		Kind: KindURLLive,
		TTL:  shortTTL,
		Run: func(ctx *Context, t Target) (Value, error) {
			live := probeURL(rawURL, networkDeadline)
			return Value{Bool: &live}, nil
		},
	}
}

// probeURL dials the URL's host and port. Any failure means "not live",
// never an error.
func probeURL(rawURL string, timeout time.Duration) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port), timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func StatusMarker() Collector {
	return Collector{
		Kind: KindStatusMarker,
		Run: func(ctx *Context, t Target) (Value, error) {
			if t.Branch == "" {
				return Value{}, ErrNotApplicable
			}
			return Value{Text: ctx.Git.ReadBranchConfig(t.Branch, "marker")}, nil
		},
	}
}
