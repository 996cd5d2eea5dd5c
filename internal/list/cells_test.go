package list

import (
	"strings"
	"testing"

	"github.com/worktrunk/wt/internal/facts"
	"github.com/worktrunk/wt/internal/gitx"
	"github.com/worktrunk/wt/internal/style"
)

func TestCountsText(t *testing.T) {
	tests := []struct {
		name string
		cell CellCounts
		want string
	}{
		{name: "ahead only", cell: CellCounts{Ahead: 1}, want: "↑1"},
		{name: "behind only", cell: CellCounts{Behind: 3}, want: "↓3"},
		{name: "diverged", cell: CellCounts{Ahead: 2, Behind: 4}, want: "↑2 ↓4"},
		{name: "none", cell: CellCounts{}, want: "·"},
		{name: "upstream arrows", cell: CellCounts{Ahead: 2, Prefix: "origin", Up: "⇡", Down: "⇣"}, want: "origin ⇡2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := displayText(tc.cell); got != tc.want {
				t.Fatalf("displayText = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDisplayTextVariants(t *testing.T) {
	if got := displayText(CellEmpty{}); got != "·" {
		t.Fatalf("empty cell = %q", got)
	}
	if got := displayText(CellLoading{}); got != "⋯" {
		t.Fatalf("loading cell = %q", got)
	}
	if got := displayText(CellDiff{Added: 12, Deleted: 3}); got != "+12 -3" {
		t.Fatalf("diff cell = %q", got)
	}
	if got := displayText(CellDiff{}); got != "·" {
		t.Fatalf("zero diff cell = %q", got)
	}
	if got := displayText(CellSymbols{Symbols: []string{"!", "?"}}); got != "!?" {
		t.Fatalf("symbols cell = %q", got)
	}
}

func TestFormatCellPadsToWidth(t *testing.T) {
	st := style.NewStyles(false)
	got := formatCell(CellText{Text: "abc"}, 6, st)
	if got != "abc   " {
		t.Fatalf("formatCell = %q", got)
	}
	wide := formatCell(CellText{Text: "日本語です"}, 6, st)
	if style.Width(wide) != 6 {
		t.Fatalf("wide text not clamped to 6 cells: %q (%d)", wide, style.Width(wide))
	}
}

func TestStatusCellSymbolOrder(t *testing.T) {
	status := gitx.WorkingTreeStatus{
		Flags:     gitx.StatusModified | gitx.StatusUntracked,
		Modified:  1,
		Untracked: 1,
	}
	cell := statusCell(Row{Branch: "feature"}, facts.Value{Status: &status})
	syms, ok := cell.(CellSymbols)
	if !ok {
		t.Fatalf("expected CellSymbols, got %T", cell)
	}
	if strings.Join(syms.Symbols, "") != "!?" {
		t.Fatalf("expected \"!?\" in defined order, got %q", strings.Join(syms.Symbols, ""))
	}
}

func TestStatusCellMainMarker(t *testing.T) {
	clean := gitx.WorkingTreeStatus{}
	cell := statusCell(Row{Branch: "main", IsMain: true}, facts.Value{Status: &clean})
	syms, ok := cell.(CellSymbols)
	if !ok {
		t.Fatalf("expected CellSymbols for main row, got %T", cell)
	}
	if strings.Join(syms.Symbols, "") != glyphMain {
		t.Fatalf("main row should show the main marker, got %q", syms.Symbols)
	}
}

func TestStatusCellMarkerAndState(t *testing.T) {
	dirty := gitx.WorkingTreeStatus{Flags: gitx.StatusModified, Modified: 1}
	cell := statusCell(Row{Branch: "feature"}, facts.Value{Status: &dirty, Text: "🚀", State: "rebase"})
	syms, ok := cell.(CellSymbols)
	if !ok {
		t.Fatalf("expected CellSymbols, got %T", cell)
	}
	joined := strings.Join(syms.Symbols, "")
	if joined != "🚀⟳!" {
		t.Fatalf("unexpected status composition: %q", joined)
	}
}

func TestDivergenceCell(t *testing.T) {
	v := facts.Value{Divergence: &facts.Divergence{Ahead: 1}}
	cell := divergenceCell(v, "", "↑", "↓")
	counts, ok := cell.(CellCounts)
	if !ok {
		t.Fatalf("expected CellCounts, got %T", cell)
	}
	if counts.Ahead != 1 || counts.Behind != 0 || counts.Style != StyleAhead {
		t.Fatalf("unexpected counts cell: %+v", counts)
	}

	if _, ok := divergenceCell(facts.Value{}, "", "↑", "↓").(CellEmpty); !ok {
		t.Fatalf("missing divergence must render the neutral glyph")
	}
}

func TestCICell(t *testing.T) {
	if c := ciCell(facts.CISuccess).(CellText); c.Text != "✔" || c.Style != StyleCIPass {
		t.Fatalf("unexpected success cell: %+v", c)
	}
	if c := ciCell(facts.CIFail).(CellText); c.Text != "✖" || c.Style != StyleCIFail {
		t.Fatalf("unexpected fail cell: %+v", c)
	}
	if _, ok := ciCell(facts.CINone).(CellEmpty); !ok {
		t.Fatalf("none state must be the neutral glyph")
	}
}

func TestRemoteName(t *testing.T) {
	if got := remoteName("origin/feature"); got != "origin" {
		t.Fatalf("remoteName = %q", got)
	}
	if got := remoteName(""); got != "" {
		t.Fatalf("remoteName of empty = %q", got)
	}
}
