package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericbuess/claude-code-docs/internal/installer"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the documentation mirror and its integration",
	Long: `Uninstall removes the /docs slash command, the settings hook, and the
mirror directory. A mirror with local changes is preserved so nothing of
yours is lost; remove it manually when you are done with it.`,
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, _ []string) error {
	deps, err := initDependencies(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	res, err := deps.Orchestrator.Uninstall(cmd.Context())
	printWarnings(out, res.Warnings)
	if err != nil {
		if errors.Is(err, installer.ErrDeclined) {
			_, _ = fmt.Fprintf(out, "%s Uninstall aborted; nothing was changed.\n", symError())
		}
		return err
	}

	var details []string
	if res.CommandFileRemoved {
		details = append(details, "Removed /docs command")
	}
	if res.HooksRemoved > 0 {
		details = append(details, fmt.Sprintf("Removed %d settings hook(s)", res.HooksRemoved))
	}
	for _, p := range res.RemovedInstalls {
		details = append(details, "Removed "+p)
	}
	for _, p := range res.Preserved {
		details = append(details, "Preserved "+p)
	}
	_, _ = fmt.Fprintln(out, renderSuccessCard("Documentation mirror uninstalled", details...))
	return nil
}
