package table

import (
	"bytes"
	"strings"
	"testing"
)

func TestNonInteractiveSuppressesSkeleton(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)
	if err := p.PaintSkeleton("HEADER", []string{"row0", "row1"}); err != nil {
		t.Fatalf("paint: %v", err)
	}
	if err := p.UpdateCell(0, 0, "x", 1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("non-interactive renderer wrote during run: %q", buf.String())
	}
	if err := p.Final("HEADER", []string{"final0", "final1"}); err != nil {
		t.Fatalf("final: %v", err)
	}
	got := buf.String()
	if got != "HEADER\nfinal0\nfinal1\n" {
		t.Fatalf("unexpected final output: %q", got)
	}
}

func TestInteractivePaintsSkeletonOnce(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)
	if err := p.PaintSkeleton("HEADER", []string{"row0"}); err != nil {
		t.Fatalf("paint: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "HEADER\n") || !strings.Contains(out, "row0\n") {
		t.Fatalf("skeleton missing: %q", out)
	}
	// Final after a painted interactive run must not repeat the table.
	before := buf.Len()
	if err := p.Final("HEADER", []string{"row0"}); err != nil {
		t.Fatalf("final: %v", err)
	}
	if buf.Len() != before {
		t.Fatalf("interactive Final repainted the table")
	}
}

func TestUpdateCellWritesInPlace(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)
	if err := p.PaintSkeleton("H", []string{"r0", "r1"}); err != nil {
		t.Fatalf("paint: %v", err)
	}
	buf.Reset()
	if err := p.UpdateCell(0, 4, "cell", 1); err != nil {
		t.Fatalf("update: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "cell") {
		t.Fatalf("cell content missing: %q", out)
	}
	// Two rows, updating row 0 means moving up 2 lines and back down 2.
	if !strings.Contains(out, "[2A") || !strings.Contains(out, "[2B") {
		t.Fatalf("expected cursor movement over 2 lines: %q", out)
	}
	if !strings.Contains(out, "[4C") {
		t.Fatalf("expected cursor column offset 4: %q", out)
	}
}

func TestStaleSequenceDiscarded(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)
	if err := p.PaintSkeleton("H", []string{"r0"}); err != nil {
		t.Fatalf("paint: %v", err)
	}
	if err := p.UpdateCell(0, 0, "new", 5); err != nil {
		t.Fatalf("update: %v", err)
	}
	buf.Reset()
	if err := p.UpdateCell(0, 0, "old", 3); err != nil {
		t.Fatalf("update: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("stale update was applied: %q", buf.String())
	}
}

func TestUpdateCellOutOfRangeIgnored(t *testing.T) {
	p := New(&bytes.Buffer{}, true)
	if err := p.PaintSkeleton("H", []string{"r0"}); err != nil {
		t.Fatalf("paint: %v", err)
	}
	if err := p.UpdateCell(7, 0, "x", 1); err != nil {
		t.Fatalf("out-of-range update must be ignored, got %v", err)
	}
}

func TestFinalizeShowsCursor(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)
	if err := p.PaintSkeleton("H", []string{"r0"}); err != nil {
		t.Fatalf("paint: %v", err)
	}
	p.Finalize()
	if !strings.Contains(buf.String(), "[?25h") {
		t.Fatalf("cursor not restored: %q", buf.String())
	}
	// Idempotent.
	before := buf.Len()
	p.Finalize()
	if buf.Len() != before {
		t.Fatalf("second Finalize wrote again")
	}
}
