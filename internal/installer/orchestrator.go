// Package installer coordinates the full install and uninstall flows:
// discovery of prior installations, repository sync, helper script and
// slash command placement, and settings hook wiring. Every destructive
// step is confirmation-gated.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ericbuess/claude-code-docs/internal/defs"
	"github.com/ericbuess/claude-code-docs/internal/logging"
	"github.com/ericbuess/claude-code-docs/internal/paths"
	"github.com/ericbuess/claude-code-docs/internal/repo"
	"github.com/ericbuess/claude-code-docs/internal/scan"
	"github.com/ericbuess/claude-code-docs/internal/settings"
)

// ErrDeclined indicates the user rejected a required confirmation.
var ErrDeclined = errors.New("installer: declined by user")

// Stage names the phase the flow is in. The trail of visited stages is
// reported on the Result for diagnostics.
type Stage string

const (
	StageScanning    Stage = "scanning"
	StageDeciding    Stage = "deciding"
	StageSyncing     Stage = "syncing"
	StageConfiguring Stage = "configuring"
	StageDone        Stage = "done"
	StageAborted     Stage = "aborted"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// Scanner discovers prior installations from their traces.
type Scanner interface {
	Scan(ctx context.Context, commandFile string, hookCommands []string) ([]scan.Install, []string)
}

// Syncer keeps the mirror directory current.
type Syncer interface {
	Sync(ctx context.Context, force bool) (repo.Result, error)
	Dir() string
}

// SettingsStore loads and persists the shared settings document.
type SettingsStore interface {
	Load() (settings.Document, error)
	Save(settings.Document) error
	Path() string
}

// Result reports what an install run did. Reason is set on abort so a
// re-run knows where the previous attempt stopped.
type Result struct {
	Outcome   repo.Outcome
	Migrated  int
	Preserved []string
	Warnings  []string
	LastStage Stage
	Reason    string
	Trail     []Stage
}

// Orchestrator wires discovery, sync, and configuration together.
type Orchestrator struct {
	resolver *paths.Resolver
	store    SettingsStore
	scanner  Scanner
	syncer   Syncer
	confirm  Confirmer
	log      zerolog.Logger
}

// New creates an Orchestrator from its collaborators.
func New(resolver *paths.Resolver, store SettingsStore, scanner Scanner, syncer Syncer, confirm Confirmer) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		store:    store,
		scanner:  scanner,
		syncer:   syncer,
		confirm:  confirm,
		log:      logging.GetLogger("installer"),
	}
}

// Install runs the full install/update flow. Declining the conflict
// confirmation aborts with ErrDeclined; declining removal of old
// installations merely leaves them in place.
func (o *Orchestrator) Install(ctx context.Context) (Result, error) {
	var res Result
	enter := func(s Stage) {
		res.LastStage = s
		res.Trail = append(res.Trail, s)
		o.log.Debug().Str("stage", string(s)).Msg("entering stage")
	}
	// Every fatal failure lands in Aborted carrying the reason and the
	// trail of stages that completed before it.
	abort := func(err error) (Result, error) {
		res.Reason = err.Error()
		enter(StageAborted)
		return res, err
	}

	enter(StageScanning)
	installRoot, err := o.resolver.InstallRoot()
	if err != nil {
		return abort(err)
	}
	commandPath, err := o.resolver.CommandFilePath()
	if err != nil {
		return abort(err)
	}

	commandContent := readIfExists(commandPath)
	doc, err := o.loadOrRecreateSettings(ctx, &res)
	if err != nil {
		return abort(err)
	}

	installs, warnings := o.scanner.Scan(ctx, commandContent, doc.HookCommands())
	res.Warnings = warnings

	enter(StageDeciding)
	var removable []scan.Install
	for _, inst := range installs {
		if samePath(inst.Path, o.syncer.Dir()) || samePath(inst.Path, installRoot) {
			continue
		}
		if inst.Status == scan.StatusDirty {
			res.Preserved = append(res.Preserved, inst.Path)
			res.Warnings = append(res.Warnings, "old installation at "+inst.Path+" has local changes and will be left in place")
			continue
		}
		removable = append(removable, inst)
	}

	removeApproved := false
	if len(removable) > 0 {
		question := fmt.Sprintf("Remove %d old installation(s) found at previous locations?", len(removable))
		ok, err := o.confirm.Confirm(ctx, question)
		if err != nil {
			return abort(err)
		}
		removeApproved = ok
		if !ok {
			for _, inst := range removable {
				res.Preserved = append(res.Preserved, inst.Path)
			}
			res.Warnings = append(res.Warnings, "old installations left in place")
		}
	}

	enter(StageSyncing)
	syncRes, err := o.syncer.Sync(ctx, false)
	if err != nil {
		return abort(err)
	}
	if syncRes.Outcome == repo.OutcomeConflict {
		question := fmt.Sprintf("Local changes in %s block the update (%s). Discard them and update?",
			o.syncer.Dir(), strings.Join(syncRes.State.DirtyFiles, ", "))
		ok, err := o.confirm.Confirm(ctx, question)
		if err != nil {
			return abort(err)
		}
		if !ok {
			res.Outcome = repo.OutcomeConflict
			res.Reason = "local changes preserved; update declined"
			enter(StageAborted)
			return res, ErrDeclined
		}
		if syncRes, err = o.syncer.Sync(ctx, true); err != nil {
			return abort(err)
		}
	}
	res.Outcome = syncRes.Outcome

	enter(StageConfiguring)
	if err := o.installHelper(&res); err != nil {
		return abort(err)
	}
	if err := writeFileAtomic(commandPath, []byte(commandFileContent(o.syncer.Dir())), defs.FilePerm); err != nil {
		return abort(fmt.Errorf("write command file: %w", err))
	}

	updated, changed := settings.AddHook(doc, defs.HookTrigger, defs.HookMatcher, hookCommand(o.syncer.Dir()))
	if changed {
		if err := o.store.Save(updated); err != nil {
			return abort(err)
		}
	}

	if removeApproved {
		for _, inst := range removable {
			if err := os.RemoveAll(inst.Path); err != nil {
				res.Warnings = append(res.Warnings, "could not remove "+inst.Path+": "+err.Error())
				continue
			}
			o.log.Info().Str("path", inst.Path).Str("version", inst.Version.String()).Msg("removed old installation")
			res.Migrated++
		}
	}

	enter(StageDone)
	return res, nil
}

// loadOrRecreateSettings loads the settings document. An invalid file
// is offered for recreation; the store backs up the broken file before
// the first save, so nothing is lost. Declining keeps the file intact
// and surfaces the parse error.
func (o *Orchestrator) loadOrRecreateSettings(ctx context.Context, res *Result) (settings.Document, error) {
	doc, err := o.store.Load()
	if err == nil {
		return doc, nil
	}
	var perr *settings.ParseError
	if !errors.As(err, &perr) {
		return settings.Document{}, err
	}

	ok, cerr := o.confirm.Confirm(ctx, "The settings file at "+perr.Path+" is not valid JSON. Back it up and recreate it?")
	if cerr != nil {
		return settings.Document{}, cerr
	}
	if !ok {
		return settings.Document{}, err
	}
	res.Warnings = append(res.Warnings, "settings file was invalid and will be recreated; the broken file is kept as a backup")
	return settings.Document{}, nil
}

// installHelper places the dispatch script from the template shipped
// inside the mirror. A missing template downgrades to a warning so an
// older mirror revision still installs.
func (o *Orchestrator) installHelper(res *Result) error {
	dir := o.syncer.Dir()
	tmpl, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(defs.HelperTemplate)))
	if os.IsNotExist(err) {
		res.Warnings = append(res.Warnings, "helper script template missing from mirror; slash command may not work until the next update")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read helper template: %w", err)
	}

	rendered := strings.ReplaceAll(string(tmpl), "{{INSTALL_DIR}}", dir)
	target := filepath.Join(dir, defs.HelperScript)
	if err := writeFileAtomic(target, []byte(rendered), defs.ScriptPerm); err != nil {
		return fmt.Errorf("write helper script: %w", err)
	}
	return nil
}

// writeFileAtomic writes via a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, defs.DirPerm); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// readIfExists returns the file content, empty when absent or
// unreadable. Discovery treats unreadable traces as absent.
func readIfExists(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// samePath compares two paths after symlink resolution, case-folded on
// platforms with case-insensitive filesystems.
func samePath(a, b string) bool {
	ra := resolvePath(a)
	rb := resolvePath(b)
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return strings.EqualFold(ra, rb)
	}
	return ra == rb
}

func resolvePath(p string) string {
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		return resolved
	}
	return filepath.Clean(p)
}
