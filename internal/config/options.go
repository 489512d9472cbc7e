// Package config loads installer options: compiled defaults, merged with
// an optional YAML file in the Claude dir, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// maxOptionsSize bounds the options file size to keep parsing cheap.
const maxOptionsSize = 1 << 20 // 1MB

// ErrInvalidOptions indicates the merged options failed validation.
var ErrInvalidOptions = errors.New("config: invalid options")

// Options holds the tunable installer settings.
type Options struct {
	Repo RepoOptions `yaml:"repo"`
	Git  GitOptions  `yaml:"git"`
}

// RepoOptions identifies the remote documentation repository.
type RepoOptions struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
}

// GitOptions bounds git subprocess durations.
type GitOptions struct {
	TimeoutSeconds      int `yaml:"timeout_seconds"`
	CloneTimeoutSeconds int `yaml:"clone_timeout_seconds"`
}

// Defaults returns the compiled-in options.
func Defaults() Options {
	return Options{
		Repo: RepoOptions{
			URL:    "https://github.com/ericbuess/claude-code-docs.git",
			Branch: "main",
		},
		Git: GitOptions{
			TimeoutSeconds:      60,
			CloneTimeoutSeconds: 120,
		},
	}
}

// Load reads options from path (absent file is fine), applies environment
// overrides, and validates the result. File values override defaults;
// environment variables override file values.
func Load(path string) (Options, error) {
	opts := Defaults()

	if path != "" {
		info, err := os.Stat(path)
		switch {
		case err == nil:
			if info.Size() > maxOptionsSize {
				return Options{}, fmt.Errorf("%w: options file %s exceeds %d bytes", ErrInvalidOptions, path, maxOptionsSize)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return Options{}, fmt.Errorf("read options file: %w", err)
			}
			if err := yaml.Unmarshal(data, &opts); err != nil {
				return Options{}, fmt.Errorf("parse options file %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Optional file; defaults apply.
		default:
			return Options{}, fmt.Errorf("stat options file: %w", err)
		}
	}

	applyEnvOverrides(&opts)

	if err := validate(opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// applyEnvOverrides applies environment variable overrides.
// Environment variables have higher priority than file-based values.
func applyEnvOverrides(opts *Options) {
	if url := os.Getenv("CLAUDE_DOCS_REPO_URL"); url != "" {
		opts.Repo.URL = url
	}
	if branch := os.Getenv("CLAUDE_DOCS_BRANCH"); branch != "" {
		opts.Repo.Branch = branch
	}
	if raw := os.Getenv("CLAUDE_DOCS_GIT_TIMEOUT"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			opts.Git.TimeoutSeconds = secs
		}
	}
}

func validate(opts Options) error {
	if opts.Repo.URL == "" {
		return fmt.Errorf("%w: repo.url must not be empty", ErrInvalidOptions)
	}
	if opts.Repo.Branch == "" {
		return fmt.Errorf("%w: repo.branch must not be empty", ErrInvalidOptions)
	}
	if opts.Git.TimeoutSeconds <= 0 || opts.Git.CloneTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: git timeouts must be positive", ErrInvalidOptions)
	}
	return nil
}
