package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericbuess/claude-code-docs/internal/repo"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the documentation mirror",
	Long: `Update fast-forwards the local mirror to the remote branch. It is the
same flow as install: a missing mirror is cloned, and the slash command
and hook wiring are refreshed while at it.`,
	RunE: runInstall,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show mirror location and last sync time",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	deps, err := initDependencies(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintf(out, "Mirror:    %s\n", deps.InstallDir)
	_, _ = fmt.Fprintf(out, "Remote:    %s (%s)\n", deps.Options.Repo.URL, deps.Options.Repo.Branch)

	last := repo.LastSync(deps.InstallDir)
	if last.IsZero() {
		_, _ = fmt.Fprintf(out, "Last sync: %s\n", cliMuted.Render("never"))
		return nil
	}
	_, _ = fmt.Fprintf(out, "Last sync: %s (%s ago)\n",
		last.Format(time.RFC3339), time.Since(last).Round(time.Minute))
	return nil
}
