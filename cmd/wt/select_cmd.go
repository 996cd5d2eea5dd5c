package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newSelectCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Pick a worktree interactively and switch to it",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) {
				return errors.New("select needs an interactive terminal")
			}
			app, err := newApp(*verbose)
			if err != nil {
				return err
			}
			return runSelect(app)
		},
	}
	return cmd
}

func runSelect(app *app) error {
	worktrees, err := app.git.ListWorktrees()
	if err != nil {
		return err
	}
	defaultBranch, err := app.git.DefaultBranch()
	if err != nil {
		return err
	}

	heads := make([]string, 0, len(worktrees))
	for _, wt := range worktrees {
		heads = append(heads, wt.Head)
	}
	meta, err := app.git.BatchCommitMeta(heads)
	if err != nil {
		return err
	}

	model := newSelectModel(worktrees, meta, defaultBranch)
	// The picker draws on stderr so stdout stays pipe-clean like the rest
	// of the tool.
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return err
	}
	m, ok := final.(selectModel)
	if !ok || m.chosen == nil {
		return nil
	}
	target := *m.chosen
	if err := app.out.ChangeDirectory(target.Path); err != nil {
		return err
	}
	if !app.out.HasDirectives() {
		app.out.Statusf("worktree at %s", target.Path)
		app.out.Hintf("add `eval \"$(wt shell-init bash)\"` to your shell config for automatic cd")
	}
	fmt.Fprintln(os.Stderr)
	return nil
}
