// Package defs centralizes file names, directory layout, and install
// defaults shared across the installer.
package defs

// Directory and file names under the user's home directory.
const (
	// InstallDirName is the canonical installation directory (under $HOME).
	InstallDirName = ".claude-code-docs"

	// ClaudeDirName is the Claude Code configuration directory (under $HOME).
	ClaudeDirName = ".claude"

	// CommandsSubdir is the slash-command directory inside the Claude dir.
	CommandsSubdir = "commands"

	// CommandFileName is the /docs slash command file. Its content is fully
	// owned by the installer and rewritten on every install.
	CommandFileName = "docs.md"

	// SettingsJSON is the shared Claude Code settings file.
	SettingsJSON = "settings.json"

	// SettingsBackupSuffix is appended to the settings path for the
	// pre-mutation backup (overwritten, not versioned).
	SettingsBackupSuffix = ".backup"

	// OptionsFileName is the optional installer options file inside the
	// Claude dir (repo URL, branch, and timeout overrides).
	OptionsFileName = "docs-installer.yaml"
)

// Files inside the documentation working copy.
const (
	// HelperScript is the command dispatch script at the install root.
	HelperScript = "claude-docs-helper.sh"

	// HelperTemplate is the in-repo template HelperScript is copied from.
	HelperTemplate = "scripts/claude-docs-helper.sh.template"

	// ManifestRelPath is the sync manifest written by the remote update
	// job. It is the only file whose local changes may be discarded
	// without confirmation.
	ManifestRelPath = "docs/docs_manifest.json"

	// LastSyncFile records the timestamp of the last successful update.
	LastSyncFile = ".last_sync"
)

// PathMarker identifies paths and hook commands that belong to this
// system. A hook is ours iff its command string contains the marker.
const PathMarker = "claude-code-docs"

// Remote defaults, overridable via the options file or environment.
const (
	DefaultRepoURL = "https://github.com/ericbuess/claude-code-docs.git"
	DefaultBranch  = "main"
)

// Hook wiring for the auto-update check.
const (
	HookTrigger = "PreToolUse"
	HookMatcher = "Read"
	HookType    = "command"
	HookArg     = "hook-check"
)

// File mode defaults.
const (
	DirPerm    = 0o755
	FilePerm   = 0o644
	ScriptPerm = 0o755
)
