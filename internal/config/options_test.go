package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileAbsent(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "docs-installer.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if opts.Repo.Branch != "main" {
		t.Errorf("Repo.Branch = %q, want main", opts.Repo.Branch)
	}
	if opts.Git.TimeoutSeconds != 60 {
		t.Errorf("Git.TimeoutSeconds = %d, want 60", opts.Git.TimeoutSeconds)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs-installer.yaml")
	content := "repo:\n  branch: testing\ngit:\n  timeout_seconds: 10\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if opts.Repo.Branch != "testing" {
		t.Errorf("Repo.Branch = %q, want testing", opts.Repo.Branch)
	}
	// Unset file keys keep their defaults.
	if opts.Repo.URL == "" {
		t.Error("Repo.URL should keep its default when not set in file")
	}
	if opts.Git.TimeoutSeconds != 10 {
		t.Errorf("Git.TimeoutSeconds = %d, want 10", opts.Git.TimeoutSeconds)
	}
	if opts.Git.CloneTimeoutSeconds != 120 {
		t.Errorf("Git.CloneTimeoutSeconds = %d, want default 120", opts.Git.CloneTimeoutSeconds)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs-installer.yaml")
	if err := os.WriteFile(path, []byte("repo:\n  branch: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLAUDE_DOCS_BRANCH", "from-env")
	t.Setenv("CLAUDE_DOCS_GIT_TIMEOUT", "7")

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if opts.Repo.Branch != "from-env" {
		t.Errorf("Repo.Branch = %q, want from-env", opts.Repo.Branch)
	}
	if opts.Git.TimeoutSeconds != 7 {
		t.Errorf("Git.TimeoutSeconds = %d, want 7", opts.Git.TimeoutSeconds)
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs-installer.yaml")
	if err := os.WriteFile(path, []byte("repo: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() should fail on invalid YAML")
	}
}

func TestLoadRejectsEmptyURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs-installer.yaml")
	if err := os.WriteFile(path, []byte("repo:\n  url: \"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CLAUDE_DOCS_REPO_URL", "")
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("Load() error = %v, want ErrInvalidOptions", err)
	}
}
