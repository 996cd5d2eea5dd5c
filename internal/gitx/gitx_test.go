package gitx

import "testing"

func TestParseWorktrees(t *testing.T) {
	out := "worktree /repo\n" +
		"HEAD 1111111111111111111111111111111111111111\n" +
		"branch refs/heads/main\n" +
		"\n" +
		"worktree /repo.feature\n" +
		"HEAD 2222222222222222222222222222222222222222\n" +
		"branch refs/heads/feature\n" +
		"locked\n" +
		"\n" +
		"worktree /repo.detached\n" +
		"HEAD 3333333333333333333333333333333333333333\n" +
		"detached\n"

	worktrees, err := parseWorktrees(out)
	if err != nil {
		t.Fatalf("parseWorktrees failed: %v", err)
	}
	if len(worktrees) != 3 {
		t.Fatalf("expected 3 worktrees, got %d", len(worktrees))
	}
	if worktrees[0].Branch != "main" || worktrees[0].Path != "/repo" {
		t.Fatalf("unexpected main worktree: %+v", worktrees[0])
	}
	if worktrees[1].Branch != "feature" || !worktrees[1].Locked {
		t.Fatalf("unexpected feature worktree: %+v", worktrees[1])
	}
	if !worktrees[2].Detached || worktrees[2].Branch != "" {
		t.Fatalf("unexpected detached worktree: %+v", worktrees[2])
	}
}

func TestParseWorktreesBare(t *testing.T) {
	out := "worktree /srv/repo.git\nbare\n"
	worktrees, err := parseWorktrees(out)
	if err != nil {
		t.Fatalf("parseWorktrees failed: %v", err)
	}
	if len(worktrees) != 1 || !worktrees[0].Bare {
		t.Fatalf("expected one bare worktree, got %+v", worktrees)
	}
}

func TestParseWorktreesMalformed(t *testing.T) {
	if _, err := parseWorktrees("branch refs/heads/x\n"); err == nil {
		t.Fatalf("expected error for attribute before worktree")
	}
	if _, err := parseWorktrees("worktree\n"); err == nil {
		t.Fatalf("expected error for missing path")
	}
}

func TestParsePorcelainStatus(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want WorkingTreeStatus
	}{
		{
			name: "clean",
			in:   "",
			want: WorkingTreeStatus{},
		},
		{
			name: "modified and untracked",
			in:   " M main.go\n?? notes.txt\n",
			want: WorkingTreeStatus{
				Flags:     StatusModified | StatusUntracked,
				Modified:  1,
				Untracked: 1,
			},
		},
		{
			name: "staged",
			in:   "A  new.go\nM  changed.go\n",
			want: WorkingTreeStatus{Flags: StatusStaged, Staged: 2},
		},
		{
			name: "rename",
			in:   "R  old.go -> new.go\n",
			want: WorkingTreeStatus{Flags: StatusRenamed | StatusStaged, Renamed: 1, Staged: 1},
		},
		{
			name: "conflict",
			in:   "UU merge.go\nAA both.go\n",
			want: WorkingTreeStatus{Flags: StatusConflicted, Conflicted: 2},
		},
		{
			name: "deleted in tree",
			in:   " D gone.go\n",
			want: WorkingTreeStatus{Flags: StatusDeleted, Deleted: 1},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePorcelainStatus(tc.in)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParsePorcelainStatusFailsClosed(t *testing.T) {
	// An unrecognized status code from a future git version must error, not
	// silently misclassify.
	if _, err := parsePorcelainStatus("ZZ weird.go\n"); err == nil {
		t.Fatalf("expected error for unknown status code")
	}
	if _, err := parsePorcelainStatus("garbage\n"); err == nil {
		t.Fatalf("expected error for malformed line")
	}
}

func TestParseNumstat(t *testing.T) {
	added, deleted, err := parseNumstat("10\t2\tmain.go\n0\t5\tutil.go\n-\t-\timage.png\n")
	if err != nil {
		t.Fatalf("parseNumstat failed: %v", err)
	}
	if added != 10 || deleted != 7 {
		t.Fatalf("expected +10 -7, got +%d -%d", added, deleted)
	}
}

func TestBranchConfigKey(t *testing.T) {
	got := branchConfigKey("feature/login", "marker")
	if got != "worktrunk.state.feature/login.marker" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestStatusFlagsHas(t *testing.T) {
	f := StatusModified | StatusUntracked
	if !f.Has(StatusModified) || f.Has(StatusConflicted) {
		t.Fatalf("flag checks failed for %b", f)
	}
}
