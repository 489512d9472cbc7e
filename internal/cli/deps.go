// Package cli provides the Cobra command tree for the documentation
// mirror installer. This file is the composition root: the only place
// concrete collaborators are instantiated and wired together.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ericbuess/claude-code-docs/internal/config"
	"github.com/ericbuess/claude-code-docs/internal/installer"
	"github.com/ericbuess/claude-code-docs/internal/paths"
	"github.com/ericbuess/claude-code-docs/internal/repo"
	"github.com/ericbuess/claude-code-docs/internal/scan"
	"github.com/ericbuess/claude-code-docs/internal/settings"
	"github.com/ericbuess/claude-code-docs/internal/ui"
)

// Dependencies holds the wired services a command run needs.
type Dependencies struct {
	Resolver     *paths.Resolver
	Options      config.Options
	Orchestrator *installer.Orchestrator
	InstallDir   string
}

// initDependencies resolves paths, loads options, and wires the
// orchestrator. The confirmer depends on the flags: --yes answers
// everything yes, --non-interactive (or a missing terminal) answers
// everything no.
func initDependencies(cmd *cobra.Command) (*Dependencies, error) {
	resolver := paths.NewResolver()

	optionsPath, err := resolver.OptionsPath()
	if err != nil {
		return nil, err
	}
	opts, err := config.Load(optionsPath)
	if err != nil {
		return nil, err
	}

	installDir, err := resolver.InstallRoot()
	if err != nil {
		return nil, err
	}
	settingsPath, err := resolver.SettingsPath()
	if err != nil {
		return nil, err
	}

	var confirm installer.Confirmer
	switch {
	case getBoolFlag(cmd, "yes"):
		confirm = ui.AutoConfirmer{Answer: true}
	case getBoolFlag(cmd, "non-interactive") || !ui.IsInteractive():
		confirm = ui.AutoConfirmer{Answer: false}
	default:
		confirm = ui.InteractiveConfirmer{}
	}

	gitTimeout := time.Duration(opts.Git.TimeoutSeconds) * time.Second
	orch := installer.New(
		resolver,
		settings.NewStore(settingsPath),
		scan.NewScanner(resolver, gitTimeout),
		repo.NewSyncer(installDir, opts),
		confirm,
	)

	return &Dependencies{
		Resolver:     resolver,
		Options:      opts,
		Orchestrator: orch,
		InstallDir:   installDir,
	}, nil
}

func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	return err == nil && v
}
