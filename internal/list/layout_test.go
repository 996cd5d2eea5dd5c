package list

import (
	"reflect"
	"testing"
)

func layoutRows() []Row {
	return []Row{
		{ID: 0, Kind: RowWorktree, Branch: "main", Path: "/x", IsMain: true, Subject: "hi"},
		{ID: 1, Kind: RowWorktree, Branch: "feat", Path: "/y", Subject: "wip"},
	}
}

func TestLayoutIdempotent(t *testing.T) {
	in := LayoutInput{Rows: layoutRows(), TermWidth: 100, ShowPath: true}
	first := Compute(in)
	second := Compute(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("layout is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestLayoutWideShowsEverything(t *testing.T) {
	l := Compute(LayoutInput{
		Rows:      layoutRows(),
		TermWidth: 500,
		ShowPath:  true,
		ShowURL:   true,
		ShowFull:  true,
		URLs:      map[int]string{1: "http://localhost:3000/feat/"},
	})
	for _, id := range []ColumnID{ColGutter, ColBranch, ColStatus, ColMain, ColPath, ColRemote, ColURL, ColCI, ColDiff, ColConflict, ColCommit, ColAge, ColMessage} {
		if !l.Visible(id) {
			t.Fatalf("column %d hidden at width 500", id)
		}
	}
}

func TestLayoutHidesMessageBeforePath(t *testing.T) {
	l := Compute(LayoutInput{Rows: layoutRows(), TermWidth: 48, ShowPath: true})
	if l.Visible(ColMessage) {
		t.Fatalf("Message should be hidden at width 48")
	}
	if !l.Visible(ColPath) {
		t.Fatalf("Path should survive Message at width 48")
	}
	if !l.Visible(ColBranch) || !l.Visible(ColStatus) {
		t.Fatalf("Branch and Status must always remain")
	}
}

func TestLayoutExtremePressureKeepsBranchAndStatus(t *testing.T) {
	l := Compute(LayoutInput{Rows: layoutRows(), TermWidth: 10, ShowPath: true})
	if !l.Visible(ColBranch) || !l.Visible(ColStatus) {
		t.Fatalf("Branch and Status must survive any width: %+v", l.Columns)
	}
	if l.Visible(ColMessage) || l.Visible(ColPath) || l.Visible(ColCommit) {
		t.Fatalf("optional columns should be gone at width 10: %+v", l.Columns)
	}
}

func TestLayoutOffsetsAreContiguous(t *testing.T) {
	l := Compute(LayoutInput{Rows: layoutRows(), TermWidth: 200, ShowPath: true})
	offset := 0
	for i, c := range l.Columns {
		if i > 0 {
			offset += columnGap
		}
		if c.Offset != offset {
			t.Fatalf("column %d offset %d, want %d", c.ID, c.Offset, offset)
		}
		offset += c.Width
	}
}

func TestLayoutMessageReceivesSlack(t *testing.T) {
	rows := layoutRows()
	rows[0].Subject = "a commit subject that is quite a bit longer than the minimum width"
	narrow := Compute(LayoutInput{Rows: rows, TermWidth: 90, ShowPath: true})
	wide := Compute(LayoutInput{Rows: rows, TermWidth: 140, ShowPath: true})
	nw, _ := narrow.column(ColMessage)
	ww, _ := wide.column(ColMessage)
	if ww.Width <= nw.Width {
		t.Fatalf("message column should grow with slack: %d vs %d", nw.Width, ww.Width)
	}
}

func TestLayoutBranchWidthTracksData(t *testing.T) {
	rows := []Row{{ID: 0, Kind: RowWorktree, Branch: "feature/very-long-branch-name", Path: "/x"}}
	l := Compute(LayoutInput{Rows: rows, TermWidth: 200, ShowPath: true})
	c, ok := l.column(ColBranch)
	if !ok {
		t.Fatalf("branch column missing")
	}
	if c.Width != len("feature/very-long-branch-name") {
		t.Fatalf("branch width %d, want %d", c.Width, len("feature/very-long-branch-name"))
	}
}
