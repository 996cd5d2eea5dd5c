// Package table owns the terminal during a progressive list run: it paints
// the skeleton, rewrites individual cells in place as facts resolve, and
// restores terminal state on exit.
package table

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

type cellKey struct {
	row    int
	offset int
}

// Progressive renders the table. Rows keep a fixed vertical position from
// the anchor (the line after the last row) for the lifetime of the run;
// in-place updates address cells relative to that anchor.
type Progressive struct {
	w            io.Writer
	term         *termenv.Output
	interactive  bool
	rowCount     int
	painted      bool
	failed       bool
	cursorHidden bool
	seqs         map[cellKey]uint64
}

// New creates a renderer. interactive=false degrades to a single final
// pass: skeleton and cell updates are suppressed and the caller prints the
// finished table through Final.
func New(w io.Writer, interactive bool) *Progressive {
	return &Progressive{
		w:           w,
		term:        termenv.NewOutput(w),
		interactive: interactive,
		seqs:        make(map[cellKey]uint64),
	}
}

// Interactive reports whether in-place updates are active.
func (p *Progressive) Interactive() bool { return p.interactive && !p.failed }

// PaintSkeleton writes the header and all skeleton rows, leaving the
// cursor on the anchor line. The row count is fixed from here on.
func (p *Progressive) PaintSkeleton(header string, rows []string) error {
	p.rowCount = len(rows)
	if !p.interactive {
		return nil
	}
	p.term.HideCursor()
	p.cursorHidden = true
	if err := p.writeLine(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := p.writeLine(row); err != nil {
			return err
		}
	}
	p.painted = true
	return nil
}

// UpdateCell rewrites one cell in place. content must already be padded to
// the cell's full width so the previous content is completely covered.
// Updates carry a per-cell sequence number; an update older than the last
// applied one is discarded.
func (p *Progressive) UpdateCell(row, offset int, content string, seq uint64) error {
	if !p.interactive || p.failed || !p.painted {
		return nil
	}
	if row < 0 || row >= p.rowCount {
		return nil
	}
	key := cellKey{row: row, offset: offset}
	if last, ok := p.seqs[key]; ok && seq <= last {
		return nil
	}
	p.seqs[key] = seq

	linesUp := p.rowCount - row
	p.term.CursorUp(linesUp)
	if _, err := io.WriteString(p.w, "\r"); err != nil {
		return p.fail(err)
	}
	if offset > 0 {
		p.term.CursorForward(offset)
	}
	if _, err := io.WriteString(p.w, content); err != nil {
		return p.fail(err)
	}
	if _, err := io.WriteString(p.w, "\r"); err != nil {
		return p.fail(err)
	}
	p.term.CursorDown(linesUp)
	return nil
}

// Final prints the finished table in one pass. Used when in-place updates
// are off (non-TTY, --progressive=false) or after a mid-run downgrade.
func (p *Progressive) Final(header string, rows []string) error {
	if p.interactive && p.painted && !p.failed {
		// The table is already on screen in its final state.
		return nil
	}
	if err := p.writeLine(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := p.writeLine(row); err != nil {
			return err
		}
	}
	return nil
}

// Finalize shows the cursor again if PaintSkeleton hid it. The cursor
// already rests on the line after the last row; no attribute reset is
// written. Safe to call more than once.
func (p *Progressive) Finalize() {
	if p.cursorHidden {
		p.term.ShowCursor()
		p.cursorHidden = false
	}
}

func (p *Progressive) writeLine(line string) error {
	if _, err := fmt.Fprintln(p.w, line); err != nil {
		return p.fail(err)
	}
	return nil
}

// fail downgrades the renderer after a terminal-write failure: further
// in-place updates become no-ops and the error propagates once.
func (p *Progressive) fail(err error) error {
	p.failed = true
	return err
}
