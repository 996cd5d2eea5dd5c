package shellio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "/tmp/repo.feature", want: "'/tmp/repo.feature'"},
		{name: "space", in: "/tmp/my repo", want: "'/tmp/my repo'"},
		{name: "embedded quote", in: "it's", want: `'it'\''s'`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := shellQuote(tc.in); got != tc.want {
				t.Fatalf("shellQuote(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestChangeDirectoryWritesDirectiveLine(t *testing.T) {
	file := filepath.Join(t.TempDir(), "directives")
	var primary, status bytes.Buffer
	out := New(&primary, &status, file, false)

	if err := out.ChangeDirectory("/tmp/repo.feature"); err != nil {
		t.Fatalf("ChangeDirectory failed: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read directive file: %v", err)
	}
	if string(data) != "cd '/tmp/repo.feature'\n" {
		t.Fatalf("unexpected directive file content: %q", string(data))
	}
	if primary.Len() != 0 {
		t.Fatalf("primary output must not carry directives, got %q", primary.String())
	}
}

func TestDirectivesAreOrdered(t *testing.T) {
	file := filepath.Join(t.TempDir(), "directives")
	out := New(&bytes.Buffer{}, &bytes.Buffer{}, file, false)

	if err := out.ChangeDirectory("/tmp/a"); err != nil {
		t.Fatalf("cd directive: %v", err)
	}
	if err := out.Execute("git merge --ff-only feature"); err != nil {
		t.Fatalf("exec directive: %v", err)
	}

	data, _ := os.ReadFile(file)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 directives, got %d: %q", len(lines), string(data))
	}
	if lines[0] != "cd '/tmp/a'" || lines[1] != "git merge --ff-only feature" {
		t.Fatalf("directives out of order: %q", lines)
	}
}

func TestNoDirectiveFileIsNoop(t *testing.T) {
	out := New(&bytes.Buffer{}, &bytes.Buffer{}, "", false)
	if out.HasDirectives() {
		t.Fatalf("expected no directive channel")
	}
	if err := out.ChangeDirectory("/tmp/x"); err != nil {
		t.Fatalf("no-op cd returned error: %v", err)
	}
}

func TestHintSuppressedInDirectiveMode(t *testing.T) {
	var status bytes.Buffer
	out := New(&bytes.Buffer{}, &status, filepath.Join(t.TempDir(), "d"), false)
	out.Hintf("install shell integration")
	if status.Len() != 0 {
		t.Fatalf("hint must be suppressed with directive channel active, got %q", status.String())
	}

	status.Reset()
	out = New(&bytes.Buffer{}, &status, "", false)
	out.Hintf("install shell integration")
	if !strings.Contains(status.String(), "hint: install shell integration") {
		t.Fatalf("expected hint, got %q", status.String())
	}
}

func TestVerboseGating(t *testing.T) {
	var status bytes.Buffer
	out := New(&bytes.Buffer{}, &status, "", false)
	out.Verbosef("collector failed")
	if status.Len() != 0 {
		t.Fatalf("verbose message leaked: %q", status.String())
	}
	out = New(&bytes.Buffer{}, &status, "", true)
	out.Verbosef("collector failed")
	if status.Len() == 0 {
		t.Fatalf("expected verbose message")
	}
}
