package gitx

import (
	"fmt"
	"strings"
)

// ErrorKind partitions git failures by what the caller can do about them.
type ErrorKind string

const (
	// KindNetwork covers transient transport failures. Worth one retry.
	KindNetwork ErrorKind = "network"
	// KindPermission covers auth and filesystem permission failures.
	KindPermission ErrorKind = "permission"
	// KindCorruption covers damaged object stores and broken worktrees.
	KindCorruption ErrorKind = "corruption"
	// KindUnknown is everything the patterns do not recognize.
	KindUnknown ErrorKind = "unknown"
)

// SyncError is a classified git failure. Output carries the trimmed
// stderr so callers can surface the underlying git message.
type SyncError struct {
	Kind   ErrorKind
	Op     string
	Output string
	Err    error
}

func (e *SyncError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("git %s: %s failure: %s", e.Op, e.Kind, e.Output)
	}
	return fmt.Sprintf("git %s: %s failure: %v", e.Op, e.Kind, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is worth a single retry.
func (e *SyncError) Retryable() bool { return e.Kind == KindNetwork }

var networkPatterns = []string{
	"could not resolve host",
	"couldn't connect to server",
	"connection timed out",
	"connection refused",
	"connection reset",
	"operation timed out",
	"failed to connect",
	"network is unreachable",
	"early eof",
	"the remote end hung up unexpectedly",
	"gnutls recv error",
	"ssl_error_syscall",
	"transfer closed",
}

var permissionPatterns = []string{
	"permission denied",
	"authentication failed",
	"could not read username",
	"could not read password",
	"insufficient permission",
	"access denied",
	"publickey",
}

var corruptionPatterns = []string{
	"not a git repository",
	"object file is empty",
	"loose object",
	"bad object",
	"corrupt",
	"index file smaller than expected",
	"unable to read tree",
	"missing blob",
	"packfile",
	"sha1 mismatch",
}

// Classify maps git stderr output onto an ErrorKind. Matching is
// case-insensitive substring search; first matching category wins in
// the order network, permission, corruption.
func Classify(stderr string) ErrorKind {
	low := strings.ToLower(stderr)
	for _, p := range networkPatterns {
		if strings.Contains(low, p) {
			return KindNetwork
		}
	}
	for _, p := range permissionPatterns {
		if strings.Contains(low, p) {
			return KindPermission
		}
	}
	for _, p := range corruptionPatterns {
		if strings.Contains(low, p) {
			return KindCorruption
		}
	}
	return KindUnknown
}
