// Package paths maps the logical install layout to platform-correct
// absolute paths. Every other component depends on it, so a failed home
// lookup is fatal for the whole run.
package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"

	"github.com/ericbuess/claude-code-docs/internal/defs"
)

// ErrNoHome indicates that no usable home directory could be determined
// from the environment or platform fallbacks.
var ErrNoHome = errors.New("paths: could not determine user home directory")

// Resolver resolves install, settings, and command-file locations.
// The zero value is not usable; construct via NewResolver.
type Resolver struct {
	lookupEnv   func(string) (string, bool)
	userHomeDir func() (string, error)
	xdgHome     func() string
}

// NewResolver creates a Resolver backed by the process environment.
func NewResolver() *Resolver {
	return &Resolver{
		lookupEnv:   os.LookupEnv,
		userHomeDir: os.UserHomeDir,
		xdgHome:     func() string { return xdg.Home },
	}
}

// Home returns the user's home directory. The lookup chain is the
// platform's canonical variable first (USERPROFILE on Windows, HOME
// elsewhere), then the cross-platform os.UserHomeDir, then the XDG
// home as a last resort.
func (r *Resolver) Home() (string, error) {
	vars := []string{"HOME"}
	if runtime.GOOS == "windows" {
		vars = []string{"USERPROFILE", "HOME"}
	}
	for _, v := range vars {
		if dir, ok := r.lookupEnv(v); ok && dir != "" {
			return filepath.Clean(dir), nil
		}
	}
	if dir, err := r.userHomeDir(); err == nil && dir != "" {
		return filepath.Clean(dir), nil
	}
	if dir := r.xdgHome(); dir != "" {
		return filepath.Clean(dir), nil
	}
	return "", ErrNoHome
}

// InstallRoot returns the canonical installation directory.
func (r *Resolver) InstallRoot() (string, error) {
	return r.underHome(defs.InstallDirName)
}

// ClaudeDir returns the Claude Code configuration directory.
func (r *Resolver) ClaudeDir() (string, error) {
	return r.underHome(defs.ClaudeDirName)
}

// SettingsPath returns the shared settings file location.
func (r *Resolver) SettingsPath() (string, error) {
	return r.underHome(defs.ClaudeDirName, defs.SettingsJSON)
}

// CommandFilePath returns the /docs slash command file location.
func (r *Resolver) CommandFilePath() (string, error) {
	return r.underHome(defs.ClaudeDirName, defs.CommandsSubdir, defs.CommandFileName)
}

// OptionsPath returns the optional installer options file location.
func (r *Resolver) OptionsPath() (string, error) {
	return r.underHome(defs.ClaudeDirName, defs.OptionsFileName)
}

// ExpandUserHome expands a leading "~" and returns an absolute, cleaned
// path. Relative paths are resolved against the working directory.
func (r *Resolver) ExpandUserHome(raw string) (string, error) {
	if raw == "~" || strings.HasPrefix(raw, "~/") || strings.HasPrefix(raw, `~\`) {
		home, err := r.Home()
		if err != nil {
			return "", err
		}
		return filepath.Clean(filepath.Join(home, raw[1:])), nil
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

func (r *Resolver) underHome(elem ...string) (string, error) {
	home, err := r.Home()
	if err != nil {
		return "", err
	}
	return filepath.Clean(filepath.Join(append([]string{home}, elem...)...)), nil
}
