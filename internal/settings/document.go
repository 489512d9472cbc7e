// Package settings models the shared Claude Code settings file and owns
// the add/remove logic for hooks belonging to the documentation mirror.
// Unrelated top-level keys and unrecognized hooks are carried as raw JSON
// and never altered.
package settings

import (
	"bytes"
	"encoding/json"
	"maps"
	"strings"

	"github.com/ericbuess/claude-code-docs/internal/defs"
)

// HookCommand is a single command descriptor inside a hook entry.
type HookCommand struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

// HookEntry is one matcher group under a trigger in the hooks mapping.
type HookEntry struct {
	Matcher string        `json:"matcher,omitempty"`
	Hooks   []HookCommand `json:"hooks"`
}

// Document is the in-memory model of the settings file. Hook entries are
// kept as raw JSON so entries this system does not own survive a rewrite
// with their original fields intact.
type Document struct {
	Hooks map[string][]json.RawMessage
	Extra map[string]json.RawMessage
}

// Parse decodes a settings document from JSON.
func Parse(data []byte) (Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Document{}, err
	}

	doc := Document{Extra: top}
	if raw, ok := top["hooks"]; ok {
		var hooks map[string][]json.RawMessage
		if err := json.Unmarshal(raw, &hooks); err == nil {
			doc.Hooks = hooks
			delete(doc.Extra, "hooks")
		}
		// An unexpected shape under "hooks" stays in Extra untouched.
	}
	return doc, nil
}

// Marshal encodes the document with stable key ordering, two-space
// indentation, and a trailing newline.
func (d Document) Marshal() ([]byte, error) {
	top := make(map[string]json.RawMessage, len(d.Extra)+1)
	maps.Copy(top, d.Extra)

	if len(d.Hooks) > 0 {
		raw, err := json.Marshal(d.Hooks)
		if err != nil {
			return nil, err
		}
		top["hooks"] = raw
	}

	out, err := json.MarshalIndent(top, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{}
	if d.Hooks != nil {
		out.Hooks = make(map[string][]json.RawMessage, len(d.Hooks))
		for trigger, entries := range d.Hooks {
			copied := make([]json.RawMessage, len(entries))
			for i, e := range entries {
				copied[i] = bytes.Clone(e)
			}
			out.Hooks[trigger] = copied
		}
	}
	if d.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for k, v := range d.Extra {
			out.Extra[k] = bytes.Clone(v)
		}
	}
	return out
}

// HookCommands returns every command string found in the hooks mapping,
// across all triggers. Entries that do not decode are skipped.
func (d Document) HookCommands() []string {
	var cmds []string
	for _, entries := range d.Hooks {
		for _, raw := range entries {
			var entry HookEntry
			if err := json.Unmarshal(raw, &entry); err != nil {
				continue
			}
			for _, h := range entry.Hooks {
				if h.Command != "" {
					cmds = append(cmds, h.Command)
				}
			}
		}
	}
	return cmds
}

// entryIsOurs reports whether a hook entry belongs to this system,
// i.e. any of its commands references the install-path marker.
func entryIsOurs(raw json.RawMessage) bool {
	var entry HookEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return false
	}
	for _, h := range entry.Hooks {
		if strings.Contains(h.Command, defs.PathMarker) {
			return true
		}
	}
	return false
}

// AddHook registers a hook entry for trigger, replacing any entry already
// recognized as ours under the same trigger. It is idempotent: adding an
// entry identical to the existing one reports no change.
func AddHook(doc Document, trigger, matcher, command string) (Document, bool) {
	desired, err := json.Marshal(HookEntry{
		Matcher: matcher,
		Hooks:   []HookCommand{{Type: defs.HookType, Command: command}},
	})
	if err != nil {
		// HookEntry contains only strings; marshal cannot fail.
		return doc, false
	}

	existing := doc.Hooks[trigger]
	var kept []json.RawMessage
	var ours []json.RawMessage
	for _, e := range existing {
		if entryIsOurs(e) {
			ours = append(ours, e)
		} else {
			kept = append(kept, e)
		}
	}

	if len(ours) == 1 && jsonEqual(ours[0], desired) {
		return doc, false
	}

	out := doc.Clone()
	if out.Hooks == nil {
		out.Hooks = make(map[string][]json.RawMessage)
	}
	out.Hooks[trigger] = append(cloneEntries(kept), desired)
	return out, true
}

// RemoveHooks removes every hook entry recognized as ours, from any
// trigger, pruning empty structures. It returns the removed entry count.
func RemoveHooks(doc Document) (Document, int) {
	removed := 0
	out := doc.Clone()
	for trigger, entries := range out.Hooks {
		var kept []json.RawMessage
		for _, e := range entries {
			if entryIsOurs(e) {
				removed++
			} else {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(out.Hooks, trigger)
		} else {
			out.Hooks[trigger] = kept
		}
	}
	if len(out.Hooks) == 0 {
		out.Hooks = nil
	}
	return out, removed
}

// jsonEqual compares two JSON values ignoring insignificant whitespace.
func jsonEqual(a, b json.RawMessage) bool {
	var ca, cb bytes.Buffer
	if err := json.Compact(&ca, a); err != nil {
		return false
	}
	if err := json.Compact(&cb, b); err != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}

func cloneEntries(entries []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(entries))
	for i, e := range entries {
		out[i] = bytes.Clone(e)
	}
	return out
}
