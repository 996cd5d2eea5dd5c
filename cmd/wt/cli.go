package main

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/worktrunk/wt/internal/cache"
	"github.com/worktrunk/wt/internal/config"
	"github.com/worktrunk/wt/internal/gitx"
	"github.com/worktrunk/wt/internal/shellio"
)

// app bundles the collaborators every command needs. Constructed once per
// invocation; the directive sink is selected here and never reselected.
type app struct {
	out   *shellio.Output
	git   *gitx.Gateway
	cache *cache.Cache
	cfg   config.Config
}

func newApp(verbose bool) (*app, error) {
	git, err := gitx.Open("")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(git.RepoRoot())
	if err != nil {
		return nil, err
	}
	return &app{
		out:   shellio.FromEnv(verbose),
		git:   git,
		cache: cache.New(filepath.Join(git.CommonDir(), "wt-cache", "facts")),
		cfg:   cfg,
	}, nil
}

func newRootCommand(ctx context.Context) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "wt",
		Short:         "Git worktree lifecycle manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose status output")

	root.AddCommand(
		newListCommand(ctx, &verbose),
		newSwitchCommand(&verbose),
		newRemoveCommand(&verbose),
		newMergeCommand(&verbose),
		newSelectCommand(&verbose),
		newStatusCommand(&verbose),
		newShellInitCommand(),
	)
	return root
}
