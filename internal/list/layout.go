package list

import (
	"strings"

	"github.com/worktrunk/wt/internal/style"
)

const (
	columnGap      = 2
	minMessage     = 20
	idealMessage   = 50
	maxMessage     = 100
	maxBranchWidth = 40
)

// Column is one placed column: its width and its cell offset within the
// rendered line.
type Column struct {
	ID     ColumnID
	Header string
	Width  int
	Offset int
}

// Layout is the frozen column arrangement. It is computed once in Phase 1
// from data already in hand and never recomputed afterwards.
type Layout struct {
	Columns []Column
}

func (l Layout) Visible(id ColumnID) bool {
	_, ok := l.column(id)
	return ok
}

func (l Layout) column(id ColumnID) (Column, bool) {
	for _, c := range l.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// LayoutInput is everything the layout engine may consult: the rows with
// their known-early cells plus the requested column set.
type LayoutInput struct {
	Rows      []Row
	TermWidth int
	ShowPath  bool // allocate the Path column
	ShowURL   bool // a URL template is configured
	ShowFull  bool // CI, diffstat and conflict columns
	URLs      map[int]string
	Ages      map[int]string
}

// Compute decides widths and visibility. Given identical inputs it returns
// identical columns.
func Compute(in LayoutInput) Layout {
	want := map[ColumnID]bool{
		ColGutter: true, ColBranch: true, ColStatus: true, ColMain: true,
		ColRemote: true, ColCommit: true, ColAge: true, ColMessage: true,
	}
	if in.ShowPath {
		want[ColPath] = true
	}
	if in.ShowURL {
		want[ColURL] = true
	}
	if in.ShowFull {
		want[ColCI] = true
		want[ColDiff] = true
		want[ColConflict] = true
	}

	widths := idealWidths(in)
	for dropped := 0; ; dropped++ {
		total := 0
		visible := 0
		for id, w := range widths {
			if !want[id] {
				continue
			}
			if visible > 0 {
				total += columnGap
			}
			total += w
			visible++
		}
		if total <= in.TermWidth || dropped >= len(hideOrder) {
			break
		}
		// Hide the next sacrificial column and retry.
		delete(want, hideOrder[dropped])
	}

	// The message column is elastic: it receives the remaining slack.
	if want[ColMessage] {
		used := 0
		visible := 0
		for id, w := range widths {
			if !want[id] {
				continue
			}
			if visible > 0 {
				used += columnGap
			}
			used += w
			visible++
		}
		slack := in.TermWidth - used
		if slack > 0 {
			grown := widths[ColMessage] + slack
			if grown > maxMessage {
				grown = maxMessage
			}
			if ideal := idealMessageWidth(in.Rows); grown > ideal {
				grown = ideal
			}
			if grown > widths[ColMessage] {
				widths[ColMessage] = grown
			}
		}
	}

	var layout Layout
	offset := 0
	for _, spec := range columnSpecs {
		if !want[spec.id] {
			continue
		}
		if len(layout.Columns) > 0 {
			offset += columnGap
		}
		layout.Columns = append(layout.Columns, Column{
			ID:     spec.id,
			Header: spec.header,
			Width:  widths[spec.id],
			Offset: offset,
		})
		offset += widths[spec.id]
	}
	return layout
}

func idealWidths(in LayoutInput) map[ColumnID]int {
	widths := make(map[ColumnID]int, columnCount)
	for _, spec := range columnSpecs {
		w := spec.fixedWidth
		if w < style.Width(spec.header) {
			w = style.Width(spec.header)
		}
		widths[spec.id] = w
	}

	for _, r := range in.Rows {
		if w := style.Width(r.DisplayName()); w > widths[ColBranch] {
			widths[ColBranch] = w
		}
		if w := style.Width(displayPath(r.Path)); w > widths[ColPath] {
			widths[ColPath] = w
		}
	}
	if widths[ColBranch] > maxBranchWidth {
		widths[ColBranch] = maxBranchWidth
	}
	for _, url := range in.URLs {
		if w := style.Width(url); w > widths[ColURL] {
			widths[ColURL] = w
		}
	}
	for _, age := range in.Ages {
		if w := style.Width(age); w > widths[ColAge] {
			widths[ColAge] = w
		}
	}
	if w := idealMessageWidth(in.Rows); w < minMessage {
		widths[ColMessage] = w
	} else {
		widths[ColMessage] = minMessage
	}
	return widths
}

func idealMessageWidth(rows []Row) int {
	ideal := style.Width("Message")
	for _, r := range rows {
		w := style.Width(r.Subject)
		if w > idealMessage {
			w = idealMessage
		}
		if w > ideal {
			ideal = w
		}
	}
	return ideal
}

// displayPath shortens home-anchored paths the way shells display them.
func displayPath(path string) string {
	if path == "" {
		return ""
	}
	home, err := homeDir()
	if err == nil && home != "" {
		if path == home {
			return "~"
		}
		if strings.HasPrefix(path, home+"/") {
			return "~" + path[len(home):]
		}
	}
	return path
}
