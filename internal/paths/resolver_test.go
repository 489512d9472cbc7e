package paths

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// newTestResolver builds a Resolver with a fully controlled environment.
func newTestResolver(env map[string]string, fallback string) *Resolver {
	return &Resolver{
		lookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		userHomeDir: func() (string, error) {
			if fallback == "" {
				return "", errors.New("no home")
			}
			return fallback, nil
		},
		xdgHome: func() string { return "" },
	}
}

func TestHomeFromEnv(t *testing.T) {
	t.Parallel()

	r := newTestResolver(map[string]string{"HOME": "/home/alice/"}, "")
	home, err := r.Home()
	if err != nil {
		t.Fatalf("Home() error: %v", err)
	}
	if home != filepath.Clean("/home/alice") {
		t.Errorf("Home() = %q, want trailing separator stripped", home)
	}
}

func TestHomeFallbackChain(t *testing.T) {
	t.Parallel()

	r := newTestResolver(map[string]string{}, "/home/bob")
	home, err := r.Home()
	if err != nil {
		t.Fatalf("Home() error: %v", err)
	}
	if home != filepath.Clean("/home/bob") {
		t.Errorf("Home() = %q, want /home/bob", home)
	}
}

func TestHomeExhaustedIsFatal(t *testing.T) {
	t.Parallel()

	r := newTestResolver(map[string]string{}, "")
	if _, err := r.Home(); !errors.Is(err, ErrNoHome) {
		t.Fatalf("Home() error = %v, want ErrNoHome", err)
	}

	// Every derived path fails the same way.
	if _, err := r.InstallRoot(); !errors.Is(err, ErrNoHome) {
		t.Errorf("InstallRoot() error = %v, want ErrNoHome", err)
	}
	if _, err := r.SettingsPath(); !errors.Is(err, ErrNoHome) {
		t.Errorf("SettingsPath() error = %v, want ErrNoHome", err)
	}
}

func TestDerivedPaths(t *testing.T) {
	t.Parallel()

	r := newTestResolver(map[string]string{"HOME": "/home/alice"}, "")

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"install root", r.InstallRoot, "/home/alice/.claude-code-docs"},
		{"claude dir", r.ClaudeDir, "/home/alice/.claude"},
		{"settings", r.SettingsPath, "/home/alice/.claude/settings.json"},
		{"command file", r.CommandFilePath, "/home/alice/.claude/commands/docs.md"},
		{"options", r.OptionsPath, "/home/alice/.claude/docs-installer.yaml"},
	}
	for _, tt := range tests {
		got, err := tt.fn()
		if err != nil {
			t.Fatalf("%s: error: %v", tt.name, err)
		}
		if got != filepath.Clean(tt.want) {
			t.Errorf("%s = %q, want %q", tt.name, got, tt.want)
		}
		if !filepath.IsAbs(got) {
			t.Errorf("%s = %q, want absolute", tt.name, got)
		}
		if strings.HasSuffix(got, string(filepath.Separator)) {
			t.Errorf("%s = %q, want no trailing separator", tt.name, got)
		}
	}
}

func TestExpandUserHome(t *testing.T) {
	t.Parallel()

	r := newTestResolver(map[string]string{"HOME": "/home/alice"}, "")

	got, err := r.ExpandUserHome("~/projects/claude-code-docs")
	if err != nil {
		t.Fatalf("ExpandUserHome() error: %v", err)
	}
	want := filepath.Clean("/home/alice/projects/claude-code-docs")
	if got != want {
		t.Errorf("ExpandUserHome() = %q, want %q", got, want)
	}

	got, err = r.ExpandUserHome("~")
	if err != nil {
		t.Fatalf("ExpandUserHome(~) error: %v", err)
	}
	if got != filepath.Clean("/home/alice") {
		t.Errorf("ExpandUserHome(~) = %q, want home", got)
	}

	// Absolute paths pass through cleaned.
	got, err = r.ExpandUserHome("/opt//docs/")
	if err != nil {
		t.Fatalf("ExpandUserHome(abs) error: %v", err)
	}
	if got != filepath.Clean("/opt/docs") {
		t.Errorf("ExpandUserHome(abs) = %q, want /opt/docs", got)
	}
}
