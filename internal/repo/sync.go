// Package repo keeps the local documentation mirror in sync with its
// remote. Updates never overwrite local changes unless the caller asks
// for a force update; the one exception is the generated manifest file,
// which always resolves in favor of the remote.
package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ericbuess/claude-code-docs/internal/config"
	"github.com/ericbuess/claude-code-docs/internal/defs"
	"github.com/ericbuess/claude-code-docs/internal/gitx"
	"github.com/ericbuess/claude-code-docs/internal/logging"
)

// Outcome describes how a sync attempt ended.
type Outcome string

const (
	// OutcomeCloned means a fresh clone was created.
	OutcomeCloned Outcome = "cloned"
	// OutcomeUpdated means the worktree advanced to the remote ref.
	OutcomeUpdated Outcome = "updated"
	// OutcomeUpToDate means local and remote refs already matched.
	OutcomeUpToDate Outcome = "up-to-date"
	// OutcomeConflict means local changes block a safe update.
	OutcomeConflict Outcome = "conflict"
)

// ErrManifestMissing indicates a clone completed but does not look like
// a documentation mirror.
var ErrManifestMissing = errors.New("repo: manifest missing after clone")

// Git is the subset of the command runner the syncer needs. Satisfied
// by *gitx.Runner.
type Git interface {
	Run(ctx context.Context, args ...string) (string, error)
	RunRetry(ctx context.Context, args ...string) (string, error)
	RunTimeout(ctx context.Context, timeout time.Duration, args ...string) (string, error)
	IsRepo(ctx context.Context) bool
	RevParse(ctx context.Context, ref string) (string, error)
	StatusPorcelain(ctx context.Context) (string, error)
}

// State is a snapshot of the mirror taken during sync.
type State struct {
	LocalRef   string
	RemoteRef  string
	DirtyFiles []string
	LastSync   time.Time
}

// Result reports the sync outcome together with the observed state.
type Result struct {
	Outcome Outcome
	State   State
}

// Syncer drives clone and update of the mirror directory.
type Syncer struct {
	dir          string
	url          string
	branch       string
	cloneTimeout time.Duration
	git          Git
	log          zerolog.Logger
}

// NewSyncer creates a Syncer for the mirror at dir using the configured
// remote and timeouts.
func NewSyncer(dir string, opts config.Options) *Syncer {
	return &Syncer{
		dir:          dir,
		url:          opts.Repo.URL,
		branch:       opts.Repo.Branch,
		cloneTimeout: time.Duration(opts.Git.CloneTimeoutSeconds) * time.Second,
		git:          gitx.NewRunner(dir, time.Duration(opts.Git.TimeoutSeconds)*time.Second),
		log:          logging.GetLogger("repo"),
	}
}

// NewSyncerWithGit is NewSyncer with an explicit Git implementation.
func NewSyncerWithGit(dir string, opts config.Options, git Git) *Syncer {
	s := NewSyncer(dir, opts)
	s.git = git
	return s
}

// Dir returns the mirror directory.
func (s *Syncer) Dir() string { return s.dir }

// remoteRef is the tracking ref the mirror follows.
func (s *Syncer) remoteRef() string { return "origin/" + s.branch }

// Sync brings the mirror up to date. A missing directory is cloned; an
// existing one is fast-forwarded when clean. Local changes outside the
// manifest yield OutcomeConflict with the worktree untouched; with
// force set they are discarded instead.
func (s *Syncer) Sync(ctx context.Context, force bool) (Result, error) {
	cloned, err := s.ensureCloned(ctx)
	if err != nil {
		return Result{}, err
	}
	if cloned {
		res := Result{Outcome: OutcomeCloned}
		if res.State, err = s.snapshot(ctx); err != nil {
			return Result{}, err
		}
		return res, s.writeLastSync(&res.State)
	}
	return s.update(ctx, force)
}

// ensureCloned clones the mirror when dir is not yet a repository. A
// pre-existing non-repository directory is removed first; the install
// dir is owned by this system, so anything unexpected there is stale.
func (s *Syncer) ensureCloned(ctx context.Context) (bool, error) {
	if s.git.IsRepo(ctx) {
		return false, nil
	}

	if info, err := os.Stat(s.dir); err == nil && info.IsDir() {
		s.log.Warn().Str("dir", s.dir).Msg("removing non-repository install directory")
		if err := os.RemoveAll(s.dir); err != nil {
			return false, fmt.Errorf("remove stale install dir: %w", err)
		}
	}
	if err := os.MkdirAll(s.dir, defs.DirPerm); err != nil {
		return false, fmt.Errorf("create install dir: %w", err)
	}

	s.log.Info().Str("url", s.url).Str("branch", s.branch).Msg("cloning documentation mirror")
	_, err := s.git.RunTimeout(ctx, s.cloneTimeout,
		"clone", "--depth", "1", "--branch", s.branch, s.url, ".")
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(filepath.Join(s.dir, defs.ManifestRelPath)); err != nil {
		return false, fmt.Errorf("%w: %s", ErrManifestMissing, defs.ManifestRelPath)
	}
	return true, nil
}

// update fetches and advances an existing mirror.
func (s *Syncer) update(ctx context.Context, force bool) (Result, error) {
	if _, err := s.git.RunRetry(ctx, "fetch", "origin", s.branch); err != nil {
		return Result{}, err
	}

	state, err := s.snapshot(ctx)
	if err != nil {
		return Result{}, err
	}

	// Matching refs mean nothing to do, even with a dirty worktree.
	if state.LocalRef != "" && state.LocalRef == state.RemoteRef {
		return Result{Outcome: OutcomeUpToDate, State: state}, nil
	}

	if force {
		if err := s.forceUpdate(ctx); err != nil {
			return Result{}, err
		}
		return s.finish(ctx, OutcomeUpdated)
	}

	// The manifest is generated content; the remote copy always wins.
	if s.onlyManifestDirty(state.DirtyFiles) {
		if _, err := s.git.Run(ctx, "checkout", "--", defs.ManifestRelPath); err != nil {
			return Result{}, err
		}
		state.DirtyFiles = nil
	}

	if len(state.DirtyFiles) > 0 {
		s.log.Warn().Strs("files", state.DirtyFiles).Msg("local changes block update")
		return Result{Outcome: OutcomeConflict, State: state}, nil
	}

	if _, err := s.git.Run(ctx, "merge", "--ff-only", s.remoteRef()); err != nil {
		// Diverged history cannot fast-forward; that is a conflict for
		// the caller to confirm, not a hard failure.
		if isNonFastForward(err) {
			s.log.Warn().Str("ref", s.remoteRef()).Msg("history diverged, update blocked")
			return Result{Outcome: OutcomeConflict, State: state}, nil
		}
		return Result{}, err
	}
	return s.finish(ctx, OutcomeUpdated)
}

// forceUpdate discards local state and pins the worktree to the remote
// ref. Aborting merge and rebase first clears any half-finished
// operation; both abort calls fail harmlessly when nothing is pending.
func (s *Syncer) forceUpdate(ctx context.Context) error {
	_, _ = s.git.Run(ctx, "merge", "--abort")
	_, _ = s.git.Run(ctx, "rebase", "--abort")

	steps := [][]string{
		{"checkout", "-B", s.branch, s.remoteRef()},
		{"reset", "--hard", s.remoteRef()},
		{"clean", "-fd"},
	}
	for _, args := range steps {
		if _, err := s.git.Run(ctx, args...); err != nil {
			return err
		}
	}
	s.log.Info().Str("ref", s.remoteRef()).Msg("force update complete")
	return nil
}

func (s *Syncer) finish(ctx context.Context, outcome Outcome) (Result, error) {
	state, err := s.snapshot(ctx)
	if err != nil {
		return Result{}, err
	}
	res := Result{Outcome: outcome, State: state}
	return res, s.writeLastSync(&res.State)
}

// snapshot reads the current refs and dirty files. A missing remote ref
// (never fetched) is not an error; it stays empty.
func (s *Syncer) snapshot(ctx context.Context) (State, error) {
	var state State

	local, err := s.git.RevParse(ctx, "HEAD")
	if err != nil {
		return State{}, err
	}
	state.LocalRef = local

	if remote, err := s.git.RevParse(ctx, s.remoteRef()); err == nil {
		state.RemoteRef = remote
	}

	status, err := s.git.StatusPorcelain(ctx)
	if err != nil {
		return State{}, err
	}
	for line := range strings.Lines(status) {
		line = strings.TrimRight(line, "\n")
		if len(line) > 3 {
			state.DirtyFiles = append(state.DirtyFiles, strings.TrimSpace(line[3:]))
		}
	}
	return state, nil
}

// isNonFastForward reports whether a merge failure means local history
// diverged from the remote.
func isNonFastForward(err error) bool {
	var serr *gitx.SyncError
	if !errors.As(err, &serr) || serr.Kind != gitx.KindUnknown {
		return false
	}
	low := strings.ToLower(serr.Output)
	return strings.Contains(low, "not possible to fast-forward") ||
		strings.Contains(low, "diverg")
}

// onlyManifestDirty reports whether every dirty path is the manifest.
func (s *Syncer) onlyManifestDirty(files []string) bool {
	if len(files) == 0 {
		return false
	}
	for _, f := range files {
		if filepath.ToSlash(f) != defs.ManifestRelPath {
			return false
		}
	}
	return true
}

// writeLastSync records the sync time inside the mirror. Failure to
// write the marker is logged, not fatal.
func (s *Syncer) writeLastSync(state *State) error {
	state.LastSync = time.Now().UTC()
	path := filepath.Join(s.dir, defs.LastSyncFile)
	content := state.LastSync.Format(time.RFC3339) + "\n"
	if err := os.WriteFile(path, []byte(content), defs.FilePerm); err != nil {
		s.log.Warn().Err(err).Msg("could not record sync time")
	}
	return nil
}

// LastSync reads the recorded sync time, zero when absent or unreadable.
func LastSync(dir string) time.Time {
	data, err := os.ReadFile(filepath.Join(dir, defs.LastSyncFile))
	if err != nil {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}
	}
	return ts
}
