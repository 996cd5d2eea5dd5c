package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/worktrunk/wt/internal/gitx"
	"github.com/worktrunk/wt/internal/shellio"
)

func newSwitchCommand(verbose *bool) *cobra.Command {
	var (
		create  bool
		base    string
		execCmd string
	)
	cmd := &cobra.Command{
		Use:   "switch <branch>",
		Short: "Switch the shell to a branch's worktree, creating it on demand",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			app, err := newApp(*verbose)
			if err != nil {
				return err
			}
			return runSwitch(app, args[0], create, base, execCmd)
		},
	}
	cmd.Flags().BoolVarP(&create, "create", "c", false, "Create a new branch off the default branch")
	cmd.Flags().StringVar(&base, "base", "", "Base ref for --create (default: the default branch)")
	cmd.Flags().StringVarP(&execCmd, "execute", "x", "", "Command to run in the worktree after switching")
	return cmd
}

func runSwitch(app *app, branch string, create bool, base, execCmd string) error {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return errors.New("branch name required")
	}
	if branch == "-" {
		previous, err := previousBranch(app)
		if err != nil {
			return err
		}
		branch = previous
	}

	worktrees, err := app.git.ListWorktrees()
	if err != nil {
		return err
	}
	fromBranch := currentBranch(app, worktrees)

	target, ok := gitx.WorktreeFor(worktrees, branch)
	path := target.Path
	if !ok {
		path, err = app.cfg.ExpandWorktreePath(app.git.RepoRoot(), branch)
		if err != nil {
			return err
		}
		if create {
			if strings.TrimSpace(base) == "" {
				base, err = app.git.DefaultBranch()
				if err != nil {
					return err
				}
			}
			app.out.Statusf("creating worktree %s from %s", path, base)
		} else {
			app.out.Statusf("creating worktree %s for %s", path, branch)
		}
		if err := app.git.AddWorktree(path, branch, base, create); err != nil {
			return err
		}
	}

	// Remember where we came from so `wt switch -` can return.
	if fromBranch != "" && fromBranch != branch {
		if err := app.git.WriteBranchConfig(branch, "previous", fromBranch); err != nil {
			app.out.Warnf("failed to record previous branch: %v", err)
		}
	}

	if err := app.out.ChangeDirectory(path); err != nil {
		return err
	}
	if execCmd != "" {
		if app.out.HasDirectives() {
			return app.out.Execute(execCmd)
		}
		// No shell integration: run the command as a child process instead.
		app.out.Hintf("run `wt shell-init` integration for automatic cd and in-shell execution")
		return runInDir(path, execCmd)
	}
	if !app.out.HasDirectives() {
		app.out.Statusf("worktree at %s", path)
		app.out.Hintf("add `eval \"$(wt shell-init bash)\"` to your shell config for automatic cd")
	}
	return nil
}

func previousBranch(app *app) (string, error) {
	worktrees, err := app.git.ListWorktrees()
	if err != nil {
		return "", err
	}
	current := currentBranch(app, worktrees)
	if current == "" {
		return "", errors.New("not on a branch")
	}
	previous := app.git.ReadBranchConfig(current, "previous")
	if previous == "" {
		return "", errors.New("no previous branch recorded")
	}
	return previous, nil
}

func currentBranch(app *app, worktrees []gitx.Worktree) string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	cwd = gitx.CanonicalPath(cwd)
	best := gitx.Worktree{}
	for _, wt := range worktrees {
		if wt.Path == cwd || strings.HasPrefix(cwd, wt.Path+"/") {
			if len(wt.Path) > len(best.Path) {
				best = wt
			}
		}
	}
	return best.Branch
}

// runInDir executes a command line through the user's shell in dir.
func runInDir(dir, command string) error {
	shell := strings.TrimSpace(os.Getenv("SHELL"))
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell, "-c", command)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = scrubbedChildEnv()
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	return nil
}

// scrubbedChildEnv removes the directive-file variable so child processes
// cannot write to the parent shell's channel.
func scrubbedChildEnv() []string {
	env := os.Environ()
	out := make([]string, 0, len(env))
	for _, kv := range env {
		if strings.HasPrefix(kv, shellio.DirectiveFileEnv+"=") {
			continue
		}
		out = append(out, kv)
	}
	return out
}
