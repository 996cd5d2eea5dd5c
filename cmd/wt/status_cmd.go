package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func newStatusCommand(verbose *bool) *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "status [marker]",
		Short: "Show or set the status marker of the current branch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			app, err := newApp(*verbose)
			if err != nil {
				return err
			}
			worktrees, err := app.git.ListWorktrees()
			if err != nil {
				return err
			}
			branch := currentBranch(app, worktrees)
			if branch == "" {
				return errors.New("not on a branch")
			}

			if clear {
				return app.git.WriteBranchConfig(branch, "marker", "")
			}
			if len(args) == 0 {
				marker := app.git.ReadBranchConfig(branch, "marker")
				if marker != "" {
					return app.out.Data(marker)
				}
				return nil
			}
			return app.git.WriteBranchConfig(branch, "marker", args[0])
		},
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the marker")
	return cmd
}
