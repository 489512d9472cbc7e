package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ericbuess/claude-code-docs/internal/installer"
	"github.com/ericbuess/claude-code-docs/internal/repo"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install or update the documentation mirror",
	Long: `Install clones the documentation mirror into ~/.claude-code-docs (or
fast-forwards an existing one), writes the /docs slash command, and
registers the freshness hook in ~/.claude/settings.json.

Old installations from previous versions are detected and offered for
removal; anything with local changes is always left in place.`,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, _ []string) error {
	deps, err := initDependencies(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	res, err := deps.Orchestrator.Install(cmd.Context())
	printWarnings(out, res.Warnings)
	if err != nil {
		if errors.Is(err, installer.ErrDeclined) {
			_, _ = fmt.Fprintf(out, "%s Installation aborted; nothing was changed.\n", symError())
		}
		return err
	}

	details := []string{
		"Mirror:  " + deps.InstallDir,
		"Command: /docs",
	}
	if res.Migrated > 0 {
		details = append(details, fmt.Sprintf("Removed %d old installation(s)", res.Migrated))
	}
	for _, p := range res.Preserved {
		details = append(details, "Preserved "+p)
	}

	title := "Documentation mirror installed"
	switch res.Outcome {
	case repo.OutcomeUpdated:
		title = "Documentation mirror updated"
	case repo.OutcomeUpToDate:
		title = "Documentation mirror already up to date"
	}
	_, _ = fmt.Fprintln(out, renderSuccessCard(title, details...))
	return nil
}

func printWarnings(out io.Writer, warnings []string) {
	for _, w := range warnings {
		_, _ = fmt.Fprintf(out, "%s %s\n", symWarning(), w)
	}
}
