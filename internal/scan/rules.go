package scan

import (
	"regexp"
	"strings"

	"github.com/ericbuess/claude-code-docs/internal/defs"
)

// Version identifies which installer generation left a trace behind.
// Higher values are more specific and win during deduplication.
type Version int

const (
	// VersionUnknown is a path found only in settings hooks.
	VersionUnknown Version = iota
	// VersionV01 is the first release, which wrote a LOCAL DOCS AT line.
	VersionV01
	// VersionV02Plus covers every release that writes an Execute line.
	VersionV02Plus
)

func (v Version) String() string {
	switch v {
	case VersionV01:
		return "v0.1"
	case VersionV02Plus:
		return "v0.2+"
	default:
		return "unknown"
	}
}

// finding is one raw path extracted from a trace, before
// canonicalization and deduplication.
type finding struct {
	path    string
	version Version
}

// localDocsPattern matches the v0.1 command file format, which pointed
// directly at the docs subdirectory of the install.
var localDocsPattern = regexp.MustCompile(`LOCAL\s+DOCS\s+AT:\s+(\S+)/docs/`)

// installRootPattern trims a path inside an install back to the install
// root itself.
var installRootPattern = regexp.MustCompile(`(.*` + regexp.QuoteMeta(defs.PathMarker) + `)([/\\].*)?$`)

// trimToInstallRoot cuts anything below the install directory off a
// path, returning the empty string when the path does not reference an
// install at all.
func trimToInstallRoot(p string) string {
	m := installRootPattern.FindStringSubmatch(p)
	if m == nil {
		return ""
	}
	return m[1]
}

// findingsFromCommandFile extracts install paths from the slash command
// file content, recognizing each historical format.
func findingsFromCommandFile(content string) []finding {
	var out []finding

	for _, m := range localDocsPattern.FindAllStringSubmatch(content, -1) {
		out = append(out, finding{path: m[1], version: VersionV01})
	}

	for line := range strings.Lines(content) {
		if !strings.Contains(line, "Execute:") {
			continue
		}
		for _, tok := range tokenize(line) {
			if !strings.Contains(tok, defs.PathMarker) {
				continue
			}
			if root := trimToInstallRoot(tok); root != "" {
				out = append(out, finding{path: root, version: VersionV02Plus})
			}
		}
	}
	return out
}

// findingsFromHookCommands extracts install paths referenced by hook
// command strings. Hooks carry no format marker, so the version stays
// unknown.
func findingsFromHookCommands(commands []string) []finding {
	var out []finding
	for _, cmd := range commands {
		if !strings.Contains(cmd, defs.PathMarker) {
			continue
		}
		for _, tok := range tokenize(cmd) {
			if !strings.Contains(tok, defs.PathMarker) {
				continue
			}
			if root := trimToInstallRoot(tok); root != "" {
				out = append(out, finding{path: root, version: VersionUnknown})
			}
		}
	}
	return out
}

// tokenize splits a shell-ish command line on whitespace, honoring
// single and double quotes so paths with spaces survive intact.
func tokenize(line string) []string {
	var toks []string
	var cur strings.Builder
	var quote rune

	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}
