package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worktrunk/wt/internal/shellio"
)

// wrapperScript is the in-shell side of the directive protocol: create a
// unique temp file, export its path, run the binary, source the file line
// by line, delete it. The read loop only consumes complete
// newline-terminated lines, so a truncated trailing directive is ignored.
const wrapperScript = `wt() {
  local __wt_directives __wt_status __wt_line
  __wt_directives=$(mktemp "${TMPDIR:-/tmp}/wt-directives.XXXXXX") || return
  %s=$__wt_directives command "${%s:-wt}" "$@"
  __wt_status=$?
  while IFS= read -r __wt_line; do
    eval "$__wt_line"
  done < "$__wt_directives"
  rm -f "$__wt_directives"
  return $__wt_status
}
`

func newShellInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "shell-init <shell>",
		Short:     "Print the shell wrapper that applies cd/exec directives",
		Long:      "Add `eval \"$(wt shell-init bash)\"` (or zsh) to your shell configuration.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash", "zsh":
				fmt.Fprintf(cmd.OutOrStdout(), wrapperScript,
					shellio.DirectiveFileEnv, shellio.BinOverrideEnv)
				return nil
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
}
