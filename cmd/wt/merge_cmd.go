package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/worktrunk/wt/internal/gitx"
)

func newMergeCommand(verbose *bool) *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "merge [branch]",
		Short: "Merge a branch into the default branch from the main worktree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			app, err := newApp(*verbose)
			if err != nil {
				return err
			}
			branch := ""
			if len(args) == 1 {
				branch = strings.TrimSpace(args[0])
			}
			return runMerge(app, branch, remove)
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the worktree and branch after a successful merge")
	return cmd
}

func runMerge(app *app, branch string, remove bool) error {
	worktrees, err := app.git.ListWorktrees()
	if err != nil {
		return err
	}
	if branch == "" {
		branch = currentBranch(app, worktrees)
		if branch == "" {
			return errors.New("not inside a branch worktree; pass a branch name")
		}
	}
	defaultBranch, err := app.git.DefaultBranch()
	if err != nil {
		return err
	}
	// A branch can pin its own integration target, e.g. a stacked branch
	// merging into its parent instead of the default branch.
	if target := app.git.ReadBranchConfig(branch, "integration-target"); target != "" {
		defaultBranch = target
	}
	if branch == defaultBranch {
		return fmt.Errorf("%s is the default branch", branch)
	}
	mainPath := mainWorktreePath(worktrees)
	if wt, ok := gitx.WorktreeFor(worktrees, defaultBranch); ok {
		// Merge where the target branch is checked out.
		mainPath = wt.Path
	}
	if mainPath == "" {
		return errors.New("cannot locate the main worktree")
	}

	// Pre-flight: simulate the merge without materializing anything.
	conflicts, err := app.git.MergeTreeWouldConflict(defaultBranch, branch)
	if err != nil {
		return err
	}
	if conflicts {
		return fmt.Errorf("merging %s into %s would conflict; resolve on the branch first", branch, defaultBranch)
	}

	// Fast-forward when the default branch has not moved, merge otherwise.
	ffOnly := false
	if mergedAlready, err := app.git.CommitIsAncestorOf(defaultBranch, branch); err == nil && mergedAlready {
		ffOnly = true
	}
	if err := app.git.Merge(mainPath, branch, ffOnly); err != nil {
		return err
	}
	app.cache.InvalidateBranch(defaultBranch)
	app.cache.InvalidateBranch(branch)
	app.out.Statusf("merged %s into %s", branch, defaultBranch)

	if remove {
		if wt, ok := gitx.WorktreeFor(worktrees, branch); ok {
			leavingCurrent := currentBranch(app, worktrees) == branch
			if leavingCurrent {
				if err := app.out.ChangeDirectory(mainPath); err != nil {
					return err
				}
			}
			if err := app.git.RemoveWorktree(wt.Path, false); err != nil {
				return err
			}
		}
		if err := app.git.DeleteBranch(branch, false); err != nil {
			return err
		}
		app.out.Statusf("removed %s", branch)
	}
	return nil
}
