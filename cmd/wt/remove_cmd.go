package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/worktrunk/wt/internal/gitx"
)

func newRemoveCommand(verbose *bool) *cobra.Command {
	var (
		force        bool
		deleteBranch bool
	)
	cmd := &cobra.Command{
		Use:   "remove [branch]",
		Short: "Remove a worktree and return the shell to the main worktree",
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
			return runRemove(app, branch, force, deleteBranch)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation and remove a dirty worktree")
	cmd.Flags().BoolVar(&deleteBranch, "delete-branch", false, "Also delete the branch after removing the worktree")
	return cmd
}

func runRemove(app *app, branch string, force, deleteBranch bool) error {
	worktrees, err := app.git.ListWorktrees()
	if err != nil {
		return err
	}

	removingCurrent := false
	if branch == "" {
		current := currentBranch(app, worktrees)
		if current == "" {
			return errors.New("not inside a branch worktree; pass a branch name")
		}
		branch = current
		removingCurrent = true
	}
	target, ok := gitx.WorktreeFor(worktrees, branch)
	if !ok {
		return fmt.Errorf("no worktree for branch %s", branch)
	}
	if target.IsMain {
		return errors.New("refusing to remove the main worktree")
	}
	if !removingCurrent {
		removingCurrent = currentBranch(app, worktrees) == branch
	}

	if !force {
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove worktree %s (%s)?", target.Path, branch)).
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	// Leave the directory before it disappears underneath the shell.
	if removingCurrent {
		mainPath := mainWorktreePath(worktrees)
		if mainPath != "" {
			if err := app.out.ChangeDirectory(mainPath); err != nil {
				return err
			}
			if !app.out.HasDirectives() {
				app.out.Statusf("main worktree at %s", mainPath)
			}
		}
	}

	if err := app.git.RemoveWorktree(target.Path, force); err != nil {
		return err
	}
	app.cache.InvalidateBranch(branch)
	app.out.Statusf("removed worktree %s", target.Path)

	if deleteBranch {
		if err := app.git.DeleteBranch(branch, force); err != nil {
			return err
		}
		if err := app.git.WriteBranchConfig(branch, "marker", ""); err != nil {
			app.out.Verbosef("failed to clear marker for %s: %v", branch, err)
		}
		app.out.Statusf("deleted branch %s", branch)
	}
	return nil
}

func mainWorktreePath(worktrees []gitx.Worktree) string {
	for _, wt := range worktrees {
		if wt.IsMain && !wt.Bare {
			return wt.Path
		}
	}
	return ""
}
