// Package gitx runs git as a subprocess with per-command timeouts and
// classifies failures so callers can distinguish transient network
// errors from auth problems and repository corruption.
package gitx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ericbuess/claude-code-docs/internal/logging"
)

// retryBaseDelay is the backoff before the single network retry.
const retryBaseDelay = 2 * time.Second

// Runner executes git commands in a fixed working directory.
type Runner struct {
	dir     string
	timeout time.Duration
	log     zerolog.Logger
}

// NewRunner creates a Runner rooted at dir. Commands that exceed
// timeout are killed and reported as failures.
func NewRunner(dir string, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Runner{dir: dir, timeout: timeout, log: logging.GetLogger("git")}
}

// Dir returns the working directory commands run in.
func (r *Runner) Dir() string { return r.dir }

// Run executes git with args and returns trimmed stdout. Failures come
// back as *SyncError carrying the classified kind and trimmed stderr.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	return r.run(ctx, r.timeout, args)
}

// RunTimeout is Run with an explicit timeout for long operations such
// as clone.
func (r *Runner) RunTimeout(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	return r.run(ctx, timeout, args)
}

func (r *Runner) run(ctx context.Context, timeout time.Duration, args []string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, "git", args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	op := "git"
	if len(args) > 0 {
		op = args[0]
	}
	r.log.Debug().
		Str("op", op).
		Strs("args", args).
		Dur("elapsed", elapsed).
		Bool("ok", err == nil).
		Msg("git command")

	if err == nil {
		return strings.TrimSpace(stdout.String()), nil
	}

	errText := strings.TrimSpace(stderr.String())
	kind := Classify(errText)
	if cctx.Err() == context.DeadlineExceeded {
		kind = KindNetwork
		if errText == "" {
			errText = "command timed out after " + timeout.String()
		}
	}
	return "", &SyncError{Kind: kind, Op: op, Output: errText, Err: err}
}

// RunRetry executes Run and, when the failure classifies as network,
// retries exactly once after a short backoff.
func (r *Runner) RunRetry(ctx context.Context, args ...string) (string, error) {
	out, err := r.Run(ctx, args...)
	if err == nil {
		return out, nil
	}

	var serr *SyncError
	if !errors.As(err, &serr) || !serr.Retryable() {
		return "", err
	}

	r.log.Warn().Str("op", serr.Op).Str("cause", serr.Output).Msg("network failure, retrying once")
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(retryBaseDelay):
	}
	return r.Run(ctx, args...)
}

// IsRepo reports whether the runner's directory is inside a git
// worktree.
func (r *Runner) IsRepo(ctx context.Context) bool {
	out, err := r.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// StatusPorcelain returns the machine-readable status lines, empty for
// a clean worktree.
func (r *Runner) StatusPorcelain(ctx context.Context) (string, error) {
	return r.Run(ctx, "status", "--porcelain")
}

// RevParse resolves ref to a commit hash.
func (r *Runner) RevParse(ctx context.Context, ref string) (string, error) {
	return r.Run(ctx, "rev-parse", ref)
}
