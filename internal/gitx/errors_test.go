package gitx

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stderr string
		want   ErrorKind
	}{
		{"dns failure", "fatal: unable to access 'https://github.com/x': Could not resolve host: github.com", KindNetwork},
		{"timeout", "fatal: unable to access: Connection timed out", KindNetwork},
		{"hung up", "fatal: the remote end hung up unexpectedly", KindNetwork},
		{"auth", "fatal: Authentication failed for 'https://github.com/x'", KindPermission},
		{"fs perms", "error: insufficient permission for adding an object", KindPermission},
		{"ssh key", "git@github.com: Permission denied (publickey).", KindPermission},
		{"empty object", "error: object file .git/objects/ab/cd is empty", KindCorruption},
		{"bad object", "fatal: bad object HEAD", KindCorruption},
		{"not a repo", "fatal: not a git repository (or any of the parent directories): .git", KindCorruption},
		{"unrecognized", "fatal: pathspec 'nope' did not match any files", KindUnknown},
		{"empty", "", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.stderr); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.stderr, got, tt.want)
			}
		})
	}
}

func TestSyncErrorRetryable(t *testing.T) {
	t.Parallel()

	if !(&SyncError{Kind: KindNetwork}).Retryable() {
		t.Error("network errors should be retryable")
	}
	for _, kind := range []ErrorKind{KindPermission, KindCorruption, KindUnknown} {
		if (&SyncError{Kind: kind}).Retryable() {
			t.Errorf("%v errors should not be retryable", kind)
		}
	}
}

func TestSyncErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 128")
	err := fmt.Errorf("sync: %w", &SyncError{Kind: KindCorruption, Op: "fetch", Err: cause})

	var serr *SyncError
	if !errors.As(err, &serr) {
		t.Fatal("errors.As should find the *SyncError through wrapping")
	}
	if serr.Kind != KindCorruption {
		t.Errorf("Kind = %v, want corruption", serr.Kind)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the underlying exec error")
	}
}

func TestSyncErrorMessage(t *testing.T) {
	t.Parallel()

	err := &SyncError{Kind: KindNetwork, Op: "fetch", Output: "could not resolve host"}
	msg := err.Error()
	if msg != "git fetch: network failure: could not resolve host" {
		t.Errorf("unexpected message: %q", msg)
	}
}
