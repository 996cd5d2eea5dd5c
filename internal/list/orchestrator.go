package list

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/worktrunk/wt/internal/cache"
	"github.com/worktrunk/wt/internal/config"
	"github.com/worktrunk/wt/internal/facts"
	"github.com/worktrunk/wt/internal/gitx"
	"github.com/worktrunk/wt/internal/shellio"
	"github.com/worktrunk/wt/internal/style"
	"github.com/worktrunk/wt/internal/table"
)

// SkeletonOnlyEnv terminates the run right after the skeleton is painted;
// used to benchmark the Phase-1 budget.
const SkeletonOnlyEnv = "WT_LIST_SKELETON_ONLY"

// DebugEnv enables per-collector timing output on stderr.
const DebugEnv = "WT_LIST_DEBUG"

const (
	defaultWorkerCap = 16
	settleWindow     = 300 * time.Millisecond
)

type Options struct {
	Full        bool
	Branches    bool
	Remotes     bool
	JSON        bool
	Progressive bool
}

type Deps struct {
	Git       *gitx.Gateway
	Cache     *cache.Cache
	Config    config.Config
	Out       *shellio.Output
	Styles    style.Styles
	TermWidth int
}

func homeDir() (string, error) { return shellio.HomeDir() }

// collected pairs a finished collector result with its destination cell.
// It is the only message crossing from the workers to the dispatcher.
type collected struct {
	rowID int
	col   ColumnID
	value CellValue
	err   error
	kind  facts.Kind
}

// Run drives the full list pipeline. Only Phase-1 errors propagate;
// everything later becomes a neutral cell.
func Run(ctx context.Context, deps Deps, opts Options) error {
	timer := newTimings(shellio.EnvFlagEnabled(DebugEnv))

	// ---- Phase 1: pre-skeleton, strictly synchronous. Only work without
	// which the skeleton cannot be drawn belongs here.
	pre, err := collectPreSkeleton(deps, opts)
	if err != nil {
		return err
	}

	if opts.JSON {
		return runJSON(ctx, deps, opts, pre)
	}

	interactive := opts.Progressive
	renderer := table.New(deps.Out.Primary(), interactive)
	defer renderer.Finalize()

	// ---- Phase 2: skeleton emission.
	header := formatHeader(pre.layout, deps.Styles)
	skeleton := make([]string, len(pre.rows))
	for i, row := range pre.rows {
		skeleton[i] = formatSkeletonRow(pre, row, renderer.Interactive(), deps.Styles)
	}
	if len(pre.rows) == 0 {
		if err := renderer.Final(header, nil); err != nil {
			return brokenPipeOK(err)
		}
		return nil
	}
	if err := renderer.PaintSkeleton(header, skeleton); err != nil {
		return brokenPipeOK(err)
	}

	if shellio.EnvFlagEnabled(SkeletonOnlyEnv) {
		if err := renderer.Final(header, skeleton); err != nil {
			return brokenPipeOK(err)
		}
		return nil
	}

	// ---- Phase 3: concurrent collection, single dispatcher.
	fctx := &facts.Context{
		Git:           deps.Git,
		Cache:         deps.Cache,
		Config:        deps.Config,
		DefaultBranch: pre.defaultBranch,
		Forge:         facts.NewForge(deps.Git.RepoRoot()),
	}

	results := make(chan collected, 64)
	pool, pctx := errgroup.WithContext(ctx)
	pool.SetLimit(workerCount(deps.Config.CollectorCap))

	post := func(c collected) {
		select {
		case results <- c:
		case <-pctx.Done():
		}
	}
	for _, job := range scheduleJobs(pre, opts) {
		job := job
		pool.Go(func() error {
			if pctx.Err() == nil {
				job(fctx, timer, post)
			}
			return nil
		})
	}
	go func() {
		pool.Wait()
		close(results)
	}()

	// The dispatcher is the only consumer: it applies updates in posting
	// order with per-cell sequence numbers, including the URL job's
	// two-phase follow-up.
	dispatch := newDispatcher(pre, renderer, deps)
	err = dispatch.drain(ctx, results)

	if !renderer.Interactive() {
		final := make([]string, len(pre.rows))
		for i, row := range pre.rows {
			final[i] = dispatch.finalRow(pre, row, deps.Styles)
		}
		if ferr := renderer.Final(header, final); ferr != nil {
			return brokenPipeOK(ferr)
		}
	}
	timer.report(deps.Out)
	return brokenPipeOK(err)
}

// brokenPipeOK maps a broken stdout pipe to a clean exit.
func brokenPipeOK(err error) error {
	if err == nil || shellio.IsBrokenPipe(err) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func workerCount(cap int) int {
	if cap <= 0 {
		cap = defaultWorkerCap
	}
	n := runtime.GOMAXPROCS(0) * 2
	if n > cap {
		n = cap
	}
	if n < 1 {
		n = 1
	}
	return n
}

// preSkeleton is everything Phase 1 produces.
type preSkeleton struct {
	rows          []Row
	layout        Layout
	defaultBranch string
	urls          map[int]string
	ages          map[int]string
	bare          bool
}

func collectPreSkeleton(deps Deps, opts Options) (*preSkeleton, error) {
	git := deps.Git
	worktrees, err := git.ListWorktrees()
	if err != nil {
		return nil, err
	}
	defaultBranch, err := git.DefaultBranch()
	if err != nil {
		return nil, err
	}

	// One for-each-ref call supplies upstreams (and the branch-only rows
	// when requested).
	locals, err := git.BranchesForEach("refs/heads")
	if err != nil {
		return nil, err
	}
	upstreams := make(map[string]string, len(locals))
	for _, b := range locals {
		upstreams[b.Name] = b.Upstream
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	current := currentRowPath(worktrees, cwd)

	bare := false
	var rows []Row
	seen := make(map[string]bool)
	for _, wt := range worktrees {
		if wt.Bare {
			bare = true
			continue
		}
		rows = append(rows, Row{
			Kind:      RowWorktree,
			Branch:    wt.Branch,
			Path:      wt.Path,
			Head:      wt.Head,
			Upstream:  upstreams[wt.Branch],
			IsMain:    wt.Branch == defaultBranch,
			IsCurrent: wt.Path == current,
			Detached:  wt.Detached,
			Locked:    wt.Locked,
		})
		seen[wt.Branch] = true
	}

	if opts.Branches {
		for _, b := range locals {
			if seen[b.Name] {
				continue
			}
			rows = append(rows, Row{
				Kind:     RowBranchOnly,
				Branch:   b.Name,
				Head:     b.Commit,
				Upstream: b.Upstream,
			})
		}
	}
	if opts.Remotes {
		remotes, err := git.BranchesForEach("refs/remotes")
		if err != nil {
			return nil, err
		}
		for _, b := range remotes {
			if seen[b.Name] {
				continue
			}
			rows = append(rows, Row{
				Kind:     RowBranchOnly,
				Branch:   b.Name,
				Head:     b.Commit,
				IsRemote: true,
			})
		}
	}

	// One git invocation covers every row's Commit/Age/Message cells and
	// the ordering key.
	commits := make([]string, 0, len(rows))
	for _, r := range rows {
		commits = append(commits, r.Head)
	}
	meta, err := git.BatchCommitMeta(commits)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if m, ok := meta[rows[i].Head]; ok {
			rows[i].Timestamp = m.Timestamp
			rows[i].Subject = m.Subject
		}
	}

	rows = orderRows(rows)

	urls := make(map[int]string)
	if strings.TrimSpace(deps.Config.URLTemplate) != "" {
		for _, r := range rows {
			if r.Branch == "" {
				continue
			}
			if u, err := deps.Config.ExpandURL(git.RepoRoot(), r.Branch); err == nil && u != "" {
				urls[r.ID] = u
			}
		}
	}
	ages := make(map[int]string, len(rows))
	for _, r := range rows {
		ages[r.ID] = formatAge(r.Timestamp)
	}

	width := deps.TermWidth
	if width <= 0 {
		width = 120
	}
	layout := Compute(LayoutInput{
		Rows:      rows,
		TermWidth: width,
		ShowPath:  true, // mandatory for bare repositories, on by default elsewhere
		ShowURL:   len(urls) > 0,
		ShowFull:  opts.Full,
		URLs:      urls,
		Ages:      ages,
	})

	return &preSkeleton{
		rows:          rows,
		layout:        layout,
		defaultBranch: defaultBranch,
		urls:          urls,
		ages:          ages,
		bare:          bare,
	}, nil
}

func formatAge(ts int64) string {
	if ts == 0 {
		return ""
	}
	return humanize.Time(time.Unix(ts, 0))
}

func formatCommit(head string) string {
	if len(head) > 8 {
		return head[:8]
	}
	return head
}

func gutterFor(r Row) string {
	switch {
	case r.IsCurrent:
		return "@"
	case r.IsMain:
		return glyphMain
	case r.Kind == RowWorktree:
		return "+"
	default:
		return " "
	}
}

func formatHeader(layout Layout, st style.Styles) string {
	parts := make([]string, 0, len(layout.Columns))
	for _, c := range layout.Columns {
		parts = append(parts, style.Pad(c.Header, c.Width))
	}
	return st.Header.Render(strings.TrimRight(strings.Join(parts, strings.Repeat(" ", columnGap)), " "))
}

// formatSkeletonRow renders one Phase-2 row: known-early cells filled,
// computed cells as placeholders (a loading marker when in-place updates
// will follow, the plain skeleton glyph otherwise).
func formatSkeletonRow(pre *preSkeleton, r Row, interactive bool, st style.Styles) string {
	var placeholder CellValue = CellEmpty{}
	if interactive {
		placeholder = CellLoading{}
	}
	cells := make([]string, 0, len(pre.layout.Columns))
	for _, c := range pre.layout.Columns {
		cells = append(cells, formatCell(skeletonCell(pre, r, c.ID, placeholder), c.Width, st))
	}
	return strings.TrimRight(strings.Join(cells, strings.Repeat(" ", columnGap)), " ")
}

func skeletonCell(pre *preSkeleton, r Row, id ColumnID, placeholder CellValue) CellValue {
	switch id {
	case ColGutter:
		return CellText{Text: gutterFor(r), Style: StyleDim}
	case ColBranch:
		return branchCell(r)
	case ColPath:
		return CellText{Text: displayPath(r.Path), Style: StyleDim}
	case ColCommit:
		return CellText{Text: formatCommit(r.Head), Style: StyleDim}
	case ColAge:
		return CellText{Text: pre.ages[r.ID], Style: StyleDim}
	case ColMessage:
		return CellText{Text: r.Subject}
	default:
		return placeholder
	}
}

func branchCell(r Row) CellValue {
	switch {
	case r.IsCurrent:
		return CellText{Text: r.DisplayName(), Style: StyleCurrent}
	case r.IsMain:
		return CellText{Text: r.DisplayName(), Style: StyleMain}
	default:
		return CellText{Text: r.DisplayName(), Style: StyleBranch}
	}
}
