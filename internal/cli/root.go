package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericbuess/claude-code-docs/internal/logging"
	"github.com/ericbuess/claude-code-docs/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "claude-docs",
	Short: "Local Claude Code documentation mirror installer",
	Long: `claude-docs installs and maintains a local mirror of the Claude Code
documentation, wires a /docs slash command into Claude Code, and keeps
the mirror fresh through a pre-tool-use hook.

The mirror lives in ~/.claude-code-docs and is a plain git clone; the
installer never overwrites local changes without asking first.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		logging.Setup(verbosity)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("claude-docs %s\n", version.GetFullVersion()))

	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().Bool("yes", false, "Answer yes to every confirmation")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Never prompt; answer no to every confirmation")
}
