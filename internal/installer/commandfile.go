package installer

import (
	"fmt"
	"path/filepath"

	"github.com/ericbuess/claude-code-docs/internal/defs"
)

// commandFileContent renders the /docs slash command file. The file is
// fully owned by the installer and rewritten on every install, so the
// content only ever reflects the current layout.
func commandFileContent(installDir string) string {
	helper := filepath.Join(installDir, defs.HelperScript)
	return fmt.Sprintf(`Execute the Claude Code documentation helper script at %s with the given arguments:

Execute: %s "$ARGUMENTS"

The script reads documentation from the local mirror and prints it for the conversation. Topics are doc file names; "-t" reports sync freshness; no argument lists available topics.
`, helper, helper)
}

// hookCommand renders the settings hook command for the install.
func hookCommand(installDir string) string {
	return filepath.Join(installDir, defs.HelperScript) + " " + defs.HookArg
}
