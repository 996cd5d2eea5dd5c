package gitx

import (
	"fmt"
	"strconv"
	"strings"
)

// StatusFlags is the bitmask of working-tree conditions parsed from
// porcelain status output.
type StatusFlags uint8

const (
	StatusUntracked StatusFlags = 1 << iota
	StatusModified
	StatusStaged
	StatusRenamed
	StatusDeleted
	StatusConflicted
)

func (f StatusFlags) Has(flag StatusFlags) bool { return f&flag != 0 }

// WorkingTreeStatus carries the flags plus per-condition file counts.
type WorkingTreeStatus struct {
	Flags      StatusFlags
	Untracked  int
	Modified   int
	Staged     int
	Renamed    int
	Deleted    int
	Conflicted int
}

func (s WorkingTreeStatus) Clean() bool { return s.Flags == 0 }

// PorcelainStatus parses `git status --porcelain` for the worktree at path.
// Files hidden by assume-unchanged or skip-worktree never appear in the
// porcelain output and are therefore not counted.
func (g *Gateway) PorcelainStatus(worktreePath string) (WorkingTreeStatus, error) {
	out, err := g.output(worktreePath, "status", "--porcelain")
	if err != nil {
		return WorkingTreeStatus{}, err
	}
	return parsePorcelainStatus(out)
}

// parsePorcelainStatus fails closed on a line it does not recognize rather
// than silently misclassifying output from an unknown git version.
func parsePorcelainStatus(out string) (WorkingTreeStatus, error) {
	var status WorkingTreeStatus
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		if len(line) < 4 || line[2] != ' ' {
			return WorkingTreeStatus{}, fmt.Errorf("unrecognized porcelain status line: %q", line)
		}
		x, y := line[0], line[1]
		switch {
		case x == '?' && y == '?':
			status.Flags |= StatusUntracked
			status.Untracked++
			continue
		case x == '!' && y == '!':
			// Ignored entries only appear with --ignored; skip defensively.
			continue
		}
		if !validStatusCode(x) || !validStatusCode(y) {
			return WorkingTreeStatus{}, fmt.Errorf("unrecognized porcelain status line: %q", line)
		}
		if isConflictPair(x, y) {
			status.Flags |= StatusConflicted
			status.Conflicted++
			continue
		}
		if x == 'R' || y == 'R' {
			status.Flags |= StatusRenamed
			status.Renamed++
		}
		if x == 'D' || y == 'D' {
			status.Flags |= StatusDeleted
			status.Deleted++
		}
		if y == 'M' || y == 'T' {
			status.Flags |= StatusModified
			status.Modified++
		}
		if x != ' ' && x != '?' {
			status.Flags |= StatusStaged
			status.Staged++
		}
	}
	return status, nil
}

func validStatusCode(c byte) bool {
	switch c {
	case ' ', 'M', 'T', 'A', 'D', 'R', 'C', 'U':
		return true
	default:
		return false
	}
}

func isConflictPair(x, y byte) bool {
	if x == 'U' || y == 'U' {
		return true
	}
	return (x == 'A' && y == 'A') || (x == 'D' && y == 'D')
}

// DiffStat sums added and deleted line counts of `git diff --numstat` with
// the given extra arguments. Binary files report no counts and are skipped.
func (g *Gateway) DiffStat(worktreePath string, args ...string) (added, deleted uint32, err error) {
	full := append([]string{"diff", "--numstat"}, args...)
	out, err := g.output(worktreePath, full...)
	if err != nil {
		return 0, 0, err
	}
	return parseNumstat(out)
}

func parseNumstat(out string) (added, deleted uint32, err error) {
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			return 0, 0, fmt.Errorf("unexpected numstat line: %q", line)
		}
		if fields[0] == "-" || fields[1] == "-" {
			continue
		}
		a, aerr := strconv.ParseUint(fields[0], 10, 32)
		d, derr := strconv.ParseUint(fields[1], 10, 32)
		if aerr != nil || derr != nil {
			return 0, 0, fmt.Errorf("unexpected numstat counts: %q", line)
		}
		added += uint32(a)
		deleted += uint32(d)
	}
	return added, deleted, nil
}
