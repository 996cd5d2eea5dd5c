package list

import (
	"fmt"
	"strings"

	"github.com/worktrunk/wt/internal/style"
)

// Cell glyphs. The dot doubles as skeleton placeholder and terminal "no
// data" state; the loading marker distinguishes "data coming" on terminals
// that support in-place updates.
const (
	glyphLoading = "⋯"
	glyphNone    = "·"
	glyphMain    = "^"
)

// StyleKind names the style a cell is rendered with; the renderer resolves
// it against the active palette so collectors never build ANSI themselves.
type StyleKind int

const (
	StylePlain StyleKind = iota
	StyleDim
	StyleBranch
	StyleCurrent
	StyleMain
	StyleDirty
	StyleAhead
	StyleBehind
	StyleConflict
	StyleCIPass
	StyleCIFail
	StyleCIPending
	StyleURL
	StyleURLDead
)

// CellValue is the closed sum of cell contents.
type CellValue interface{ isCell() }

type CellEmpty struct{}

type CellLoading struct{}

// CellText is plain display text with a style.
type CellText struct {
	Text  string
	Style StyleKind
}

// CellCounts is an ahead/behind pair rendered with arrows. Prefix carries
// the remote name for the upstream column; Up/Down choose the arrow set
// (plain for main divergence, dashed for upstream).
type CellCounts struct {
	Ahead  uint32
	Behind uint32
	Prefix string
	Up     string
	Down   string
	Style  StyleKind
}

// CellSymbols is an ordered set of status symbols.
type CellSymbols struct {
	Symbols []string
	Style   StyleKind
}

// CellDiff is an added/deleted line pair.
type CellDiff struct {
	Added   uint32
	Deleted uint32
}

func (CellEmpty) isCell()   {}
func (CellLoading) isCell() {}
func (CellText) isCell()    {}
func (CellCounts) isCell()  {}
func (CellSymbols) isCell() {}
func (CellDiff) isCell()    {}

func (s StyleKind) resolve(st style.Styles) func(string) string {
	pick := func(l interface{ Render(...string) string }) func(string) string {
		return func(text string) string { return l.Render(text) }
	}
	switch s {
	case StyleDim:
		return pick(st.Dim)
	case StyleBranch:
		return pick(st.Branch)
	case StyleCurrent:
		return pick(st.Current)
	case StyleMain:
		return pick(st.Main)
	case StyleDirty:
		return pick(st.StatusDirt)
	case StyleAhead:
		return pick(st.Ahead)
	case StyleBehind:
		return pick(st.Behind)
	case StyleConflict:
		return pick(st.Conflict)
	case StyleCIPass:
		return pick(st.CIPass)
	case StyleCIFail:
		return pick(st.CIFail)
	case StyleCIPending:
		return pick(st.CIPending)
	case StyleURL:
		return pick(st.URL)
	case StyleURLDead:
		return pick(st.URLDead)
	default:
		return func(text string) string { return text }
	}
}

// displayText renders the unstyled text of a cell value.
func displayText(v CellValue) string {
	switch c := v.(type) {
	case CellEmpty:
		return glyphNone
	case CellLoading:
		return glyphLoading
	case CellText:
		if c.Text == "" {
			return glyphNone
		}
		return c.Text
	case CellCounts:
		return countsText(c)
	case CellSymbols:
		if len(c.Symbols) == 0 {
			return glyphNone
		}
		return strings.Join(c.Symbols, "")
	case CellDiff:
		if c.Added == 0 && c.Deleted == 0 {
			return glyphNone
		}
		return fmt.Sprintf("+%d -%d", c.Added, c.Deleted)
	default:
		return glyphNone
	}
}

func countsText(c CellCounts) string {
	up := c.Up
	down := c.Down
	if up == "" {
		up = "↑"
	}
	if down == "" {
		down = "↓"
	}
	var parts []string
	if c.Prefix != "" {
		parts = append(parts, c.Prefix)
	}
	switch {
	case c.Ahead > 0 && c.Behind > 0:
		parts = append(parts, fmt.Sprintf("%s%d %s%d", up, c.Ahead, down, c.Behind))
	case c.Ahead > 0:
		parts = append(parts, fmt.Sprintf("%s%d", up, c.Ahead))
	case c.Behind > 0:
		parts = append(parts, fmt.Sprintf("%s%d", down, c.Behind))
	default:
		if c.Prefix == "" {
			return glyphNone
		}
	}
	return strings.Join(parts, " ")
}

// formatCell truncates, pads and styles a cell to exactly width terminal
// cells. Styling happens after layout so ANSI bytes never affect widths.
func formatCell(v CellValue, width int, st style.Styles) string {
	text := style.Pad(displayText(v), width)
	switch c := v.(type) {
	case CellEmpty:
		return st.Skeleton.Render(text)
	case CellLoading:
		return st.Skeleton.Render(text)
	case CellText:
		return c.Style.resolve(st)(text)
	case CellSymbols:
		return c.Style.resolve(st)(text)
	case CellCounts:
		return c.Style.resolve(st)(text)
	case CellDiff:
		if c.Added == 0 && c.Deleted == 0 {
			return st.Skeleton.Render(text)
		}
		// Color the signs but keep the padded shape.
		plain := fmt.Sprintf("+%d -%d", c.Added, c.Deleted)
		if style.Width(plain) > width {
			return st.StatusDirt.Render(style.Pad(plain, width))
		}
		plus := st.Added.Render(fmt.Sprintf("+%d", c.Added))
		minus := st.Deleted.Render(fmt.Sprintf("-%d", c.Deleted))
		return plus + " " + minus + strings.Repeat(" ", width-style.Width(plain))
	default:
		return text
	}
}
