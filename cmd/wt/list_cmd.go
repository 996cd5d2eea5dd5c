package main

import (
	"context"
	"fmt"
	"os"

	xterm "github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/worktrunk/wt/internal/list"
	"github.com/worktrunk/wt/internal/style"
)

func newListCommand(ctx context.Context, verbose *bool) *cobra.Command {
	var (
		full        bool
		branches    bool
		remotes     bool
		format      string
		progressive bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List worktrees with live status",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unknown format: %s", format)
			}
			app, err := newApp(*verbose)
			if err != nil {
				return err
			}

			tty := isatty.IsTerminal(os.Stdout.Fd())
			opts := list.Options{
				Full:     full || app.cfg.ListFull,
				Branches: branches,
				Remotes:  remotes,
				JSON:     format == "json",
				// Progressive rendering is on by default interactively and
				// forced off when stdout is not a terminal.
				Progressive: progressive && tty && format == "table",
			}

			width := 0
			if tty {
				if w, _, err := xterm.GetSize(os.Stdout.Fd()); err == nil {
					width = w
				}
			}
			deps := list.Deps{
				Git:       app.git,
				Cache:     app.cache,
				Config:    app.cfg,
				Out:       app.out,
				Styles:    style.NewStyles(style.ColorEnabled(os.Stdout)),
				TermWidth: width,
			}
			return list.Run(ctx, deps, opts)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Include CI, diffstat and merge-conflict columns")
	cmd.Flags().BoolVar(&branches, "branches", false, "Include branches without a worktree")
	cmd.Flags().BoolVar(&remotes, "remotes", false, "Include remote-only branches")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	cmd.Flags().BoolVar(&progressive, "progressive", true, "Update cells in place as facts resolve")
	return cmd
}
