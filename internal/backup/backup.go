// Package backup creates timestamped copies of files before modification
// and bounds how many copies are kept per original file name.
package backup

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Suffix is appended to every backup file name.
const Suffix = ".bak"

// timestampLayout names backup files: {base}.{timestamp}.bak. Second
// resolution — two backups of the same file within one second share a name
// and the later one wins.
const timestampLayout = "2006-01-02_15-04-05"

// Manager copies files into Dir before they are overwritten and prunes the
// oldest copies once a file has more than Max of them.
type Manager struct {
	Dir    string
	Max    int
	Logger *slog.Logger

	// now is stubbed in tests to control backup timestamps.
	now func() time.Time
}

// New returns a Manager writing backups to dir and keeping at most max per
// file. A nil logger falls back to slog.Default().
func New(dir string, max int, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{Dir: dir, Max: max, Logger: logger, now: time.Now}
}

// Create copies the file at path to {Dir}/{base}.{timestamp}.bak, creating
// Dir if needed, and returns the backup path. A missing source file is not
// an error: nothing is copied and "" is returned.
func (m *Manager) Create(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.Logger.Warn("file does not exist, no backup created", "path", path)
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if err := os.MkdirAll(m.Dir, 0o750); err != nil {
		return "", fmt.Errorf("creating backup directory %s: %w", m.Dir, err)
	}

	base := filepath.Base(path)
	backupPath := filepath.Join(m.Dir, base+"."+m.now().Format(timestampLayout)+Suffix)

	tmp, err := os.CreateTemp(m.Dir, ".backup-*")
	if err != nil {
		return "", fmt.Errorf("creating temp backup file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("writing backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp backup: %w", err)
	}
	if err := os.Rename(tmpName, backupPath); err != nil {
		return "", fmt.Errorf("finalising backup %s: %w", backupPath, err)
	}
	tmpName = "" // disarm defer

	m.Logger.Info("backup created", "path", backupPath)
	return backupPath, nil
}

// Prune deletes the oldest backups for base until at most Max remain.
// Age is judged by file mod time; identical mod times fall back to name
// order, so exactly one candidate is oldest at each step.
func (m *Manager) Prune(base string) error {
	entries, err := m.scan(base)
	if err != nil {
		return err
	}

	for len(entries) > m.Max {
		oldest := entries[0]
		if err := os.Remove(filepath.Join(m.Dir, oldest.name)); err != nil {
			return fmt.Errorf("removing old backup %s: %w", oldest.name, err)
		}
		m.Logger.Info("deleted old backup", "name", oldest.name)
		entries = entries[1:]
	}
	return nil
}

// List returns the backup file names recorded for base, newest first.
func (m *Manager) List(base string) ([]string, error) {
	entries, err := m.scan(base)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[len(entries)-1-i] = e.name
	}
	return names, nil
}

// RemoveAll deletes every backup recorded for base, continuing past
// individual failures, and reports how many were deleted.
func (m *Manager) RemoveAll(base string) (int, error) {
	entries, err := m.scan(base)
	if err != nil {
		return 0, err
	}

	var errs []error
	deleted := 0
	for _, e := range entries {
		if err := os.Remove(filepath.Join(m.Dir, e.name)); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted++
	}
	m.Logger.Info("removed backups", "base", base, "deleted", deleted, "failed", len(errs))
	return deleted, errors.Join(errs...)
}

type entry struct {
	name string
	mod  time.Time
}

// scan lists the backups for base in Dir, oldest first. A missing backup
// directory is treated as empty.
func (m *Manager) scan(base string) ([]entry, error) {
	dirEntries, err := os.ReadDir(m.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup directory %s: %w", m.Dir, err)
	}

	var entries []entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if !strings.HasPrefix(name, base+".") || !strings.HasSuffix(name, Suffix) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		entries = append(entries, entry{name: name, mod: info.ModTime()})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].mod.Equal(entries[j].mod) {
			return entries[i].mod.Before(entries[j].mod)
		}
		return entries[i].name < entries[j].name
	})
	return entries, nil
}
