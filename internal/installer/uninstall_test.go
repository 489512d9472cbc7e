package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ericbuess/claude-code-docs/internal/defs"
	"github.com/ericbuess/claude-code-docs/internal/scan"
	"github.com/ericbuess/claude-code-docs/internal/settings"
)

func installedFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)

	if err := os.MkdirAll(f.syncer.dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(f.commandPath(t)), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.commandPath(t), []byte(commandFileContent(f.syncer.dir)), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, _ := settings.AddHook(settings.Document{}, defs.HookTrigger, defs.HookMatcher, hookCommand(f.syncer.dir))
	f.store.doc = doc
	f.scanner.installs = []scan.Install{{Path: f.syncer.dir, Version: scan.VersionV02Plus, Status: scan.StatusClean}}
	return f
}

func TestUninstallDeclined(t *testing.T) {
	f := installedFixture(t)
	f.confirm.answers = []bool{false}

	_, err := f.orch.Uninstall(context.Background())
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("Uninstall() error = %v, want ErrDeclined", err)
	}
	if _, err := os.Stat(f.commandPath(t)); err != nil {
		t.Error("declined uninstall must not remove the command file")
	}
	if _, err := os.Stat(f.syncer.dir); err != nil {
		t.Error("declined uninstall must not remove the installation")
	}
	if len(f.store.saved) != 0 {
		t.Error("declined uninstall must not touch settings")
	}
}

func TestUninstallRemovesEverythingWhenClean(t *testing.T) {
	f := installedFixture(t)
	f.confirm.answers = []bool{true}

	res, err := f.orch.Uninstall(context.Background())
	if err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}
	if !res.CommandFileRemoved {
		t.Error("command file should be removed")
	}
	if _, err := os.Stat(f.commandPath(t)); !os.IsNotExist(err) {
		t.Error("command file still on disk")
	}
	if res.HooksRemoved != 1 {
		t.Errorf("HooksRemoved = %d, want 1", res.HooksRemoved)
	}
	if len(f.store.saved) != 1 {
		t.Fatalf("settings saved %d times, want 1", len(f.store.saved))
	}
	if len(f.store.saved[0].HookCommands()) != 0 {
		t.Error("saved settings should carry no hook commands")
	}
	if len(res.RemovedInstalls) != 1 {
		t.Errorf("RemovedInstalls = %v, want the canonical install", res.RemovedInstalls)
	}
	if _, err := os.Stat(f.syncer.dir); !os.IsNotExist(err) {
		t.Error("clean installation should be removed")
	}
}

func TestUninstallConfirmationListsRemovals(t *testing.T) {
	f := installedFixture(t)
	f.confirm.answers = []bool{true}

	if _, err := f.orch.Uninstall(context.Background()); err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}
	if len(f.confirm.questions) != 1 {
		t.Fatalf("questions = %v, want exactly one", f.confirm.questions)
	}
	q := f.confirm.questions[0]
	if !strings.Contains(q, f.syncer.dir) {
		t.Errorf("confirmation should name the installation to remove, got %q", q)
	}
	if !strings.Contains(q, "/docs command") {
		t.Errorf("confirmation should mention the command file, got %q", q)
	}
}

func TestUninstallConfirmationMarksPreservedInstalls(t *testing.T) {
	f := installedFixture(t)
	f.scanner.installs[0].Status = scan.StatusDirty
	f.confirm.answers = []bool{true}

	if _, err := f.orch.Uninstall(context.Background()); err != nil {
		t.Fatal(err)
	}
	q := f.confirm.questions[0]
	if !strings.Contains(q, f.syncer.dir) || !strings.Contains(q, "preserved") {
		t.Errorf("confirmation should disclose the preserved path, got %q", q)
	}
}

func TestUninstallPreservesDirtyInstall(t *testing.T) {
	f := installedFixture(t)
	f.scanner.installs[0].Status = scan.StatusDirty
	f.confirm.answers = []bool{true}

	res, err := f.orch.Uninstall(context.Background())
	if err != nil {
		t.Fatalf("Uninstall() error: %v", err)
	}
	if _, err := os.Stat(f.syncer.dir); err != nil {
		t.Error("dirty installation must be preserved")
	}
	if len(res.Preserved) != 1 {
		t.Errorf("Preserved = %v, want the dirty install", res.Preserved)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "local changes") {
			found = true
		}
	}
	if !found {
		t.Errorf("preserving a dirty install should warn, warnings: %v", res.Warnings)
	}
	// Integration still comes out even when the directory stays.
	if !res.CommandFileRemoved || res.HooksRemoved != 1 {
		t.Error("command file and hooks should be removed regardless")
	}
}

func TestUninstallUnparseableSettings(t *testing.T) {
	f := installedFixture(t)
	f.store.loadErr = &settings.ParseError{Path: "settings.json", Err: errors.New("bad json")}
	f.confirm.answers = []bool{true}

	res, err := f.orch.Uninstall(context.Background())
	if err != nil {
		t.Fatalf("unparseable settings must not fail the uninstall: %v", err)
	}
	if res.HooksRemoved != 0 || len(f.store.saved) != 0 {
		t.Error("unparseable settings must be left untouched")
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "not valid JSON") {
			found = true
		}
	}
	if !found {
		t.Errorf("should warn about unusable settings, warnings: %v", res.Warnings)
	}
	if !res.CommandFileRemoved {
		t.Error("command file removal should still proceed")
	}
}

func TestUninstallPrunesEmptyCommandsDir(t *testing.T) {
	f := installedFixture(t)
	f.confirm.answers = []bool{true}

	if _, err := f.orch.Uninstall(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Dir(f.commandPath(t))); !os.IsNotExist(err) {
		t.Error("empty commands directory should be pruned")
	}
}

func TestUninstallKeepsNonEmptyCommandsDir(t *testing.T) {
	f := installedFixture(t)
	other := filepath.Join(filepath.Dir(f.commandPath(t)), "other.md")
	if err := os.WriteFile(other, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}
	f.confirm.answers = []bool{true}

	if _, err := f.orch.Uninstall(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("unrelated command files must survive")
	}
}

func TestUninstallProbesUntracedCanonicalInstall(t *testing.T) {
	f := installedFixture(t)
	// No traces at all, but the canonical directory exists. The fake
	// scanner has no prober, so the state is unknown and must be
	// treated as dirty.
	f.scanner.installs = nil
	f.confirm.answers = []bool{true}

	res, err := f.orch.Uninstall(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, statErr := os.Stat(f.syncer.dir); statErr != nil {
		t.Error("unknown-state installation must not be removed")
	}
	if len(res.Preserved) != 1 {
		t.Errorf("Preserved = %v, want the canonical install", res.Preserved)
	}
}
