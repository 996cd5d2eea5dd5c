package list

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/worktrunk/wt/internal/facts"
	"github.com/worktrunk/wt/internal/gitx"
	"github.com/worktrunk/wt/internal/style"
	"github.com/worktrunk/wt/internal/table"
)

// listJob is one unit of Phase-3 work. A job posts exactly one cell update,
// except the URL job which owns the only legitimate re-resolve: the URL
// appears as soon as the template expands, and is dimmed by a second update
// when the liveness probe comes back negative.
type listJob func(fctx *facts.Context, timer *timings, post func(collected))

func scheduleJobs(pre *preSkeleton, opts Options) []listJob {
	var jobs []listJob
	for _, row := range pre.rows {
		row := row
		target := facts.Target{
			Branch:       row.Branch,
			Commit:       row.Head,
			WorktreePath: row.Path,
			Upstream:     row.Upstream,
		}

		if pre.layout.Visible(ColStatus) {
			jobs = append(jobs, simpleJob(row, ColStatus, facts.RowStatus(), target,
				func(v facts.Value) CellValue { return statusCell(row, v) }))
		}
		if pre.layout.Visible(ColMain) {
			jobs = append(jobs, simpleJob(row, ColMain, facts.MainDivergence(), target,
				func(v facts.Value) CellValue { return divergenceCell(v, "", "↑", "↓") }))
		}
		if pre.layout.Visible(ColRemote) {
			jobs = append(jobs, simpleJob(row, ColRemote, facts.UpstreamDivergence(), target,
				func(v facts.Value) CellValue {
					return divergenceCell(v, remoteName(row.Upstream), "⇡", "⇣")
				}))
		}
		if opts.Full && pre.layout.Visible(ColDiff) {
			jobs = append(jobs, simpleJob(row, ColDiff, facts.MainDiffstat(), target,
				func(v facts.Value) CellValue {
					if v.Diff == nil {
						return CellEmpty{}
					}
					return CellDiff{Added: v.Diff.Added, Deleted: v.Diff.Deleted}
				}))
		}
		if opts.Full && pre.layout.Visible(ColConflict) {
			jobs = append(jobs, simpleJob(row, ColConflict, facts.ConflictsWithMain(), target,
				func(v facts.Value) CellValue { return conflictCell(v) }))
		}
		if opts.Full && pre.layout.Visible(ColCI) {
			jobs = append(jobs, simpleJob(row, ColCI, facts.CIStatus(), target,
				func(v facts.Value) CellValue { return ciCell(v.CI) }))
		}
		if url, ok := pre.urls[row.ID]; ok && pre.layout.Visible(ColURL) {
			jobs = append(jobs, urlJob(row, url, target))
		}
	}
	return jobs
}

// simpleJob collects one fact and posts one cell update. A collector error
// becomes the neutral glyph, never a run failure.
func simpleJob(row Row, col ColumnID, collector facts.Collector, target facts.Target, render func(facts.Value) CellValue) listJob {
	return func(fctx *facts.Context, timer *timings, post func(collected)) {
		start := time.Now()
		record, err := facts.Collect(fctx, collector, target)
		timer.record(collector.Kind, time.Since(start))
		c := collected{rowID: row.ID, col: col, kind: collector.Kind}
		switch {
		case errors.Is(err, facts.ErrNotApplicable):
			c.value = CellEmpty{}
		case err != nil:
			c.value = CellEmpty{}
			c.err = err
		default:
			c.value = render(record.Value)
		}
		post(c)
	}
}

// urlJob resolves the URL cell, then probes liveness and dims the cell if
// the port is not listening. No cell is updated more than twice.
func urlJob(row Row, url string, target facts.Target) listJob {
	return func(fctx *facts.Context, timer *timings, post func(collected)) {
		start := time.Now()
		record, err := facts.Collect(fctx, facts.URL(), target)
		timer.record(facts.KindURL, time.Since(start))
		if err != nil || record.Value.Text == "" {
			post(collected{rowID: row.ID, col: ColURL, kind: facts.KindURL, value: CellEmpty{}, err: err})
			return
		}
		expanded := record.Value.Text
		post(collected{
			rowID: row.ID,
			col:   ColURL,
			kind:  facts.KindURL,
			value: CellText{Text: expanded, Style: StyleURL},
		})

		start = time.Now()
		live, lerr := facts.Collect(fctx, facts.URLLive(expanded), target)
		timer.record(facts.KindURLLive, time.Since(start))
		if lerr == nil && live.Value.Bool != nil && !*live.Value.Bool {
			post(collected{
				rowID: row.ID,
				col:   ColURL,
				kind:  facts.KindURLLive,
				value: CellText{Text: expanded, Style: StyleURLDead},
			})
		}
	}
}

func remoteName(upstream string) string {
	name, _, ok := strings.Cut(upstream, "/")
	if !ok {
		return ""
	}
	return name
}

func divergenceCell(v facts.Value, prefix, up, down string) CellValue {
	if v.Divergence == nil {
		return CellEmpty{}
	}
	st := StyleDim
	switch {
	case v.Divergence.Ahead > 0 && v.Divergence.Behind > 0:
		st = StyleDirty
	case v.Divergence.Ahead > 0:
		st = StyleAhead
	case v.Divergence.Behind > 0:
		st = StyleBehind
	}
	return CellCounts{
		Ahead:  v.Divergence.Ahead,
		Behind: v.Divergence.Behind,
		Prefix: prefix,
		Up:     up,
		Down:   down,
		Style:  st,
	}
}

func conflictCell(v facts.Value) CellValue {
	if v.Bool == nil {
		return CellEmpty{}
	}
	if *v.Bool {
		return CellText{Text: "✗", Style: StyleConflict}
	}
	return CellText{Text: "✓", Style: StyleDim}
}

func ciCell(state facts.CIState) CellValue {
	switch state {
	case facts.CISuccess:
		return CellText{Text: "✔", Style: StyleCIPass}
	case facts.CIFail:
		return CellText{Text: "✖", Style: StyleCIFail}
	case facts.CIInProgress:
		return CellText{Text: "●", Style: StyleCIPending}
	default:
		return CellEmpty{}
	}
}

// statusSymbolOrder fixes the display order of working-tree symbols.
var statusSymbolOrder = []struct {
	flag gitx.StatusFlags
	sym  string
}{
	{gitx.StatusConflicted, "✗"},
	{gitx.StatusModified, "!"},
	{gitx.StatusStaged, "+"},
	{gitx.StatusDeleted, "-"},
	{gitx.StatusRenamed, "»"},
	{gitx.StatusUntracked, "?"},
}

func statusCell(row Row, v facts.Value) CellValue {
	var symbols []string
	if v.Text != "" {
		symbols = append(symbols, v.Text)
	}
	if v.State != "" {
		symbols = append(symbols, "⟳")
	}
	if v.Status != nil {
		for _, s := range statusSymbolOrder {
			if v.Status.Flags.Has(s.flag) {
				symbols = append(symbols, s.sym)
			}
		}
	}
	if len(symbols) == 0 {
		if row.IsMain {
			return CellSymbols{Symbols: []string{glyphMain}, Style: StyleMain}
		}
		return CellEmpty{}
	}
	st := StyleDirty
	if v.Status != nil && v.Status.Flags.Has(gitx.StatusConflicted) {
		st = StyleConflict
	}
	return CellSymbols{Symbols: symbols, Style: st}
}

// dispatcher drains the result channel on the main task, assigns per-cell
// sequence numbers, and feeds the renderer.
type dispatcher struct {
	pre      *preSkeleton
	renderer *table.Progressive
	deps     Deps
	seq      map[cellRef]uint64
	resolved map[cellRef]CellValue
}

type cellRef struct {
	row int
	col ColumnID
}

func newDispatcher(pre *preSkeleton, renderer *table.Progressive, deps Deps) *dispatcher {
	return &dispatcher{
		pre:      pre,
		renderer: renderer,
		deps:     deps,
		seq:      make(map[cellRef]uint64),
		resolved: make(map[cellRef]CellValue),
	}
}

func (d *dispatcher) apply(c collected) error {
	if c.err != nil {
		d.deps.Out.Verbosef("wt list: %s for %s: %v", c.kind, rowLabel(d.pre, c.rowID), c.err)
	}
	ref := cellRef{row: c.rowID, col: c.col}
	d.seq[ref]++
	d.resolved[ref] = c.value
	col, ok := d.pre.layout.column(c.col)
	if !ok {
		return nil
	}
	content := formatCell(c.value, col.Width, d.deps.Styles)
	return d.renderer.UpdateCell(c.rowID, col.Offset, content, d.seq[ref])
}

// drain applies updates until the result channel closes. On cancellation it
// keeps draining already-completed collectors for a short settle window to
// avoid tearing, then returns.
func (d *dispatcher) drain(ctx context.Context, results <-chan collected) error {
	for {
		select {
		case c, ok := <-results:
			if !ok {
				return nil
			}
			if err := d.apply(c); err != nil {
				// Rendering failed: stop consuming interactively; the
				// renderer has already downgraded itself.
				drainRemaining(results)
				return err
			}
		case <-ctx.Done():
			settle := time.After(settleWindow)
			for {
				select {
				case c, ok := <-results:
					if !ok {
						return ctx.Err()
					}
					if err := d.apply(c); err != nil {
						drainRemaining(results)
						return err
					}
				case <-settle:
					return ctx.Err()
				}
			}
		}
	}
}

func drainRemaining(results <-chan collected) {
	for range results {
	}
}

// finalRow renders a row with every resolved cell in place; cells whose
// collectors never finished show the neutral glyph.
func (d *dispatcher) finalRow(pre *preSkeleton, r Row, st style.Styles) string {
	cells := make([]string, 0, len(pre.layout.Columns))
	for _, c := range pre.layout.Columns {
		value := skeletonCell(pre, r, c.ID, CellValue(CellEmpty{}))
		if v, ok := d.resolved[cellRef{row: r.ID, col: c.ID}]; ok {
			value = v
		}
		cells = append(cells, formatCell(value, c.Width, st))
	}
	return strings.TrimRight(strings.Join(cells, strings.Repeat(" ", columnGap)), " ")
}

func rowLabel(pre *preSkeleton, rowID int) string {
	for _, r := range pre.rows {
		if r.ID == rowID {
			return r.DisplayName()
		}
	}
	return "?"
}
