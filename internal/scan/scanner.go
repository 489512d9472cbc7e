// Package scan discovers existing documentation mirror installations
// from the traces earlier versions left behind: the slash command file
// and hook entries in the shared settings. Discovery is best-effort;
// unreadable sources produce warnings, never hard failures.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ericbuess/claude-code-docs/internal/gitx"
	"github.com/ericbuess/claude-code-docs/internal/logging"
	"github.com/ericbuess/claude-code-docs/internal/paths"
)

// Status describes what the git probe found at an install path.
type Status string

const (
	// StatusClean is a repository with no local changes. Safe to remove.
	StatusClean Status = "clean"
	// StatusDirty is a repository with local changes, or one whose state
	// could not be determined. Never removed automatically.
	StatusDirty Status = "dirty"
	// StatusNotRepo is a plain directory without a git worktree.
	StatusNotRepo Status = "not-a-repo"
)

// Install is one discovered installation.
type Install struct {
	Path    string
	Version Version
	Status  Status
}

// Prober checks the repository state of a directory.
type Prober interface {
	Probe(ctx context.Context, dir string) (Status, error)
}

// gitProber probes with real git subprocesses.
type gitProber struct {
	timeout time.Duration
}

func (p gitProber) Probe(ctx context.Context, dir string) (Status, error) {
	runner := gitx.NewRunner(dir, p.timeout)
	if !runner.IsRepo(ctx) {
		return StatusNotRepo, nil
	}
	status, err := runner.StatusPorcelain(ctx)
	if err != nil {
		return StatusDirty, err
	}
	if status == "" {
		return StatusClean, nil
	}
	return StatusDirty, nil
}

// Scanner finds prior installations.
type Scanner struct {
	resolver *paths.Resolver
	probe    Prober
	caseFold bool
	log      zerolog.Logger
}

// NewScanner creates a Scanner using real git probes.
func NewScanner(resolver *paths.Resolver, gitTimeout time.Duration) *Scanner {
	return &Scanner{
		resolver: resolver,
		probe:    gitProber{timeout: gitTimeout},
		caseFold: runtime.GOOS == "darwin" || runtime.GOOS == "windows",
		log:      logging.GetLogger("scan"),
	}
}

// NewScannerWithProber is NewScanner with an explicit probe, for tests.
func NewScannerWithProber(resolver *paths.Resolver, probe Prober) *Scanner {
	s := NewScanner(resolver, 0)
	s.probe = probe
	return s
}

// Scan extracts candidate paths from the command file content and the
// given hook commands, canonicalizes and deduplicates them, drops paths
// that no longer exist, and probes the survivors. The returned warnings
// describe traces that could not be fully evaluated.
func (s *Scanner) Scan(ctx context.Context, commandFile string, hookCommands []string) ([]Install, []string) {
	findings := findingsFromCommandFile(commandFile)
	findings = append(findings, findingsFromHookCommands(hookCommands)...)

	var warnings []string
	best := make(map[string]finding)
	order := make([]string, 0, len(findings))

	for _, f := range findings {
		canon, err := s.canonicalize(f.path)
		if err != nil {
			warnings = append(warnings, "cannot resolve traced path "+f.path+": "+err.Error())
			continue
		}
		key := canon
		if s.caseFold {
			key = strings.ToLower(canon)
		}
		prev, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = finding{path: canon, version: f.version}
			continue
		}
		// The most specific trace decides the reported version.
		if f.version > prev.version {
			best[key] = finding{path: canon, version: f.version}
		}
	}

	var installs []Install
	for _, key := range order {
		f := best[key]
		info, err := os.Stat(f.path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil || !info.IsDir() {
			warnings = append(warnings, "cannot inspect "+f.path+": not an accessible directory")
			continue
		}

		status, err := s.probe.Probe(ctx, f.path)
		if err != nil {
			// Unknown state is treated as dirty so it is never removed.
			warnings = append(warnings, "git probe failed for "+f.path+": "+err.Error())
			status = StatusDirty
		}
		installs = append(installs, Install{Path: f.path, Version: f.version, Status: status})
	}

	sort.Slice(installs, func(i, j int) bool { return installs[i].Path < installs[j].Path })
	s.log.Debug().Int("installs", len(installs)).Int("warnings", len(warnings)).Msg("scan complete")
	return installs, warnings
}

// ProbeDir checks the repository state of one directory without going
// through trace discovery.
func (s *Scanner) ProbeDir(ctx context.Context, dir string) (Status, error) {
	return s.probe.Probe(ctx, dir)
}

// canonicalize expands, absolutizes, and resolves symlinks. Symlink
// resolution failure falls back to the cleaned absolute path so a
// dangling link still dedups textually.
func (s *Scanner) canonicalize(p string) (string, error) {
	abs, err := s.resolver.ExpandUserHome(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
