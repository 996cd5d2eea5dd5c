package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/worktrunk/wt/internal/shellio"
)

func TestLoadMissingFilesUsesDefaults(t *testing.T) {
	t.Setenv(shellio.HomeOverrideEnv, t.TempDir())
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WorktreePath != DefaultWorktreePath {
		t.Fatalf("expected default worktree path, got %q", cfg.WorktreePath)
	}
	if cfg.URLTemplate != "" {
		t.Fatalf("expected no URL template, got %q", cfg.URLTemplate)
	}
}

func TestProjectOverlaysUser(t *testing.T) {
	home := t.TempDir()
	t.Setenv(shellio.HomeOverrideEnv, home)
	userDir := filepath.Join(home, ".config", "wt")
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	userCfg := "worktree-path: \"/worktrees/{{.BranchSlug}}\"\nlist-full: true\n"
	if err := os.WriteFile(filepath.Join(userDir, "config.yaml"), []byte(userCfg), 0o644); err != nil {
		t.Fatalf("write user config: %v", err)
	}

	repo := t.TempDir()
	projectCfg := "url-template: \"http://localhost:3000/{{.BranchSlug}}/\"\n"
	if err := os.WriteFile(filepath.Join(repo, ".wt.yaml"), []byte(projectCfg), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, err := Load(repo)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WorktreePath != "/worktrees/{{.BranchSlug}}" {
		t.Fatalf("user worktree path lost: %q", cfg.WorktreePath)
	}
	if cfg.URLTemplate != "http://localhost:3000/{{.BranchSlug}}/" {
		t.Fatalf("project URL template missing: %q", cfg.URLTemplate)
	}
	if !cfg.ListFull {
		t.Fatalf("list-full lost in overlay")
	}
}

func TestExpandWorktreePath(t *testing.T) {
	cfg := Config{WorktreePath: DefaultWorktreePath}
	got, err := cfg.ExpandWorktreePath("/home/dev/repo", "feature/login")
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if got != "/home/dev/repo.feature-login" {
		t.Fatalf("unexpected path: %q", got)
	}
}

func TestExpandWorktreePathAbsolute(t *testing.T) {
	cfg := Config{WorktreePath: "/worktrees/{{.RepoName}}/{{.BranchSlug}}"}
	got, err := cfg.ExpandWorktreePath("/home/dev/repo", "fix")
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if got != "/worktrees/repo/fix" {
		t.Fatalf("unexpected path: %q", got)
	}
}

func TestExpandURL(t *testing.T) {
	cfg := Config{URLTemplate: "http://localhost:14337/{{.BranchSlug}}/"}
	got, err := cfg.ExpandURL("/home/dev/repo", "feature/x")
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if got != "http://localhost:14337/feature-x/" {
		t.Fatalf("unexpected url: %q", got)
	}

	empty, err := Config{}.ExpandURL("/home/dev/repo", "feature/x")
	if err != nil || empty != "" {
		t.Fatalf("empty template should expand to empty, got %q err=%v", empty, err)
	}
}

func TestExpandRejectsBadTemplate(t *testing.T) {
	cfg := Config{WorktreePath: "{{.Nope}}"}
	if _, err := cfg.ExpandWorktreePath("/repo", "b"); err == nil {
		t.Fatalf("expected error for unknown template field")
	}
}
