package settings

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ericbuess/claude-code-docs/internal/defs"
	"github.com/ericbuess/claude-code-docs/internal/logging"
)

// ParseError indicates the settings file exists but is not valid JSON.
// The caller decides whether to abort or offer to recreate the file;
// the store never discards unreadable user configuration on its own.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("settings: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Store loads and saves the settings document at a fixed path. The first
// mutating save of a session copies the on-disk file to a sibling backup.
type Store struct {
	path     string
	backedUp bool
	log      zerolog.Logger
}

// NewStore creates a Store for the settings file at path.
func NewStore(path string) *Store {
	return &Store{path: path, log: logging.GetLogger("settings")}
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

// BackupPath returns the sibling backup location.
func (s *Store) BackupPath() string { return s.path + defs.SettingsBackupSuffix }

// Load reads the settings document. An absent file yields an empty
// document; invalid JSON yields a *ParseError with the raw error attached.
func (s *Store) Load() (Document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Document{}, nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("read settings: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return Document{}, &ParseError{Path: s.path, Err: err}
	}
	return doc, nil
}

// Save writes the document atomically: serialize in full, write to a
// temp file in the same directory, then rename over the target. The
// rename is the only moment of visibility, so a failed write leaves the
// original untouched.
func (s *Store) Save(doc Document) error {
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, defs.DirPerm); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	if !s.backedUp {
		if err := s.backup(); err != nil {
			return err
		}
		s.backedUp = true
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // cleanup on error path

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, defs.FilePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	s.log.Debug().Str("path", s.path).Msg("settings saved")
	return nil
}

// backup copies the current on-disk file to the backup path, overwriting
// any prior backup. A missing source is fine (first install).
func (s *Store) backup() error {
	src, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open settings for backup: %w", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(s.BackupPath(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, defs.FilePerm)
	if err != nil {
		return fmt.Errorf("create settings backup: %w", err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write settings backup: %w", err)
	}
	s.log.Debug().Str("path", s.BackupPath()).Msg("settings backed up")
	return nil
}
