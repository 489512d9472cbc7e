package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ericbuess/claude-code-docs/internal/scan"
	"github.com/ericbuess/claude-code-docs/internal/settings"
)

// UninstallResult reports what an uninstall run did.
type UninstallResult struct {
	RemovedInstalls    []string
	Preserved          []string
	HooksRemoved       int
	CommandFileRemoved bool
	Warnings           []string
}

// Uninstall removes the slash command, the settings hooks, and every
// discovered installation whose repository is clean. Dirty repositories
// and directories that are not repositories are preserved with a
// warning. Discovery runs first so the single confirmation can list
// exactly what is about to be removed.
func (o *Orchestrator) Uninstall(ctx context.Context) (UninstallResult, error) {
	var res UninstallResult

	installRoot, err := o.resolver.InstallRoot()
	if err != nil {
		return res, err
	}
	commandPath, err := o.resolver.CommandFilePath()
	if err != nil {
		return res, err
	}

	// Traces are read before their files are removed below.
	commandContent := readIfExists(commandPath)

	doc, err := o.store.Load()
	var hookCommands []string
	settingsUsable := true
	if err != nil {
		var perr *settings.ParseError
		if !errors.As(err, &perr) {
			return res, err
		}
		settingsUsable = false
		res.Warnings = append(res.Warnings, "settings file is not valid JSON; hooks were left untouched")
	} else {
		hookCommands = doc.HookCommands()
	}

	installs, warnings := o.scanner.Scan(ctx, commandContent, hookCommands)
	res.Warnings = append(res.Warnings, warnings...)
	if !containsPath(installs, installRoot) {
		if info, statErr := os.Stat(installRoot); statErr == nil && info.IsDir() {
			// The canonical install may carry no traces, e.g. after a
			// partially completed install. Probe it directly.
			installs = append(installs, scan.Install{Path: installRoot, Status: probeOrDirty(ctx, o.scanner, installRoot)})
		}
	}

	var removals, keeps []scan.Install
	for _, inst := range installs {
		if inst.Status == scan.StatusClean {
			removals = append(removals, inst)
		} else {
			keeps = append(keeps, inst)
		}
	}

	ok, err := o.confirm.Confirm(ctx, uninstallQuestion(removals, keeps, commandContent != "", len(hookCommands)))
	if err != nil {
		return res, err
	}
	if !ok {
		return res, ErrDeclined
	}

	if err := os.Remove(commandPath); err == nil {
		res.CommandFileRemoved = true
		// Removing the now-empty commands dir keeps the Claude dir tidy;
		// a non-empty dir makes this a no-op.
		_ = os.Remove(filepath.Dir(commandPath))
	} else if !os.IsNotExist(err) {
		res.Warnings = append(res.Warnings, "could not remove command file: "+err.Error())
	}

	if settingsUsable {
		cleaned, removed := settings.RemoveHooks(doc)
		if removed > 0 {
			if err := o.store.Save(cleaned); err != nil {
				return res, err
			}
			res.HooksRemoved = removed
		}
	}

	for _, inst := range removals {
		if err := os.RemoveAll(inst.Path); err != nil {
			res.Warnings = append(res.Warnings, "could not remove "+inst.Path+": "+err.Error())
			continue
		}
		res.RemovedInstalls = append(res.RemovedInstalls, inst.Path)
		o.log.Info().Str("path", inst.Path).Msg("removed installation")
	}
	for _, inst := range keeps {
		res.Preserved = append(res.Preserved, inst.Path)
		if inst.Status == scan.StatusDirty {
			res.Warnings = append(res.Warnings, inst.Path+" has local changes and was preserved")
		} else {
			res.Warnings = append(res.Warnings, inst.Path+" is not a repository and was preserved")
		}
	}

	return res, nil
}

// uninstallQuestion builds the confirmation text from what discovery
// actually found, so the user sees the concrete removal list up front.
func uninstallQuestion(removals, keeps []scan.Install, hasCommandFile bool, hookCount int) string {
	var parts []string
	if hasCommandFile {
		parts = append(parts, "the /docs command")
	}
	if hookCount > 0 {
		parts = append(parts, fmt.Sprintf("%d settings hook(s)", hookCount))
	}
	for _, inst := range removals {
		parts = append(parts, inst.Path)
	}

	var b strings.Builder
	b.WriteString("Remove the Claude Code documentation mirror integration?")
	if len(parts) > 0 {
		b.WriteString(" This removes " + strings.Join(parts, ", ") + ".")
	}
	for _, inst := range keeps {
		b.WriteString(" " + inst.Path + " will be preserved.")
	}
	return b.String()
}

func containsPath(installs []scan.Install, path string) bool {
	for _, inst := range installs {
		if samePath(inst.Path, path) {
			return true
		}
	}
	return false
}

// probeOrDirty asks the scanner's prober when available, defaulting to
// dirty so an unknown state is never removed.
func probeOrDirty(ctx context.Context, s Scanner, dir string) scan.Status {
	type prober interface {
		ProbeDir(ctx context.Context, dir string) (scan.Status, error)
	}
	if p, ok := s.(prober); ok {
		if status, err := p.ProbeDir(ctx, dir); err == nil {
			return status
		}
	}
	return scan.StatusDirty
}
