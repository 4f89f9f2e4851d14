// Package configstore reads and writes structured configuration files in
// JSON, XML, CSV and YAML form. Every write is guarded: the existing file is
// copied into a backup directory first and the oldest backups are pruned so
// at most a fixed number remain per file.
//
// Reads are forgiving — a missing or corrupt file is logged and yields an
// empty result. Writes are strict about value shapes: passing a value of the
// wrong type fails with ErrInvalidType before anything touches the disk,
// while I/O failures after that point are logged and swallowed.
package configstore

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mucoz/config-store/internal/backup"
	"github.com/mucoz/config-store/internal/codec"
)

// Defaults applied for zero Options fields.
const (
	DefaultBackupDir  = "config-backups"
	DefaultMaxBackups = 5
)

// ErrInvalidType reports that a value passed to a write method has the wrong
// shape for the target format. Check with errors.Is.
var ErrInvalidType = codec.ErrInvalidType

// Options configures a Store. The zero value is usable: backups go to
// "config-backups" under the working directory, five are kept per file, and
// slog.Default() receives log output.
type Options struct {
	BackupDir  string
	MaxBackups int
	Logger     *slog.Logger
}

// Store reads and writes configuration files, backing up the previous
// content before each overwrite. It holds no state beyond its configuration.
// No locking is performed: concurrent writers targeting the same path must
// be serialized by the caller.
type Store struct {
	log     *slog.Logger
	backups *backup.Manager
}

// New returns a Store with the given options, applying defaults for zero
// fields.
func New(opts Options) *Store {
	if opts.BackupDir == "" {
		opts.BackupDir = DefaultBackupDir
	}
	if opts.MaxBackups == 0 {
		opts.MaxBackups = DefaultMaxBackups
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		log:     opts.Logger,
		backups: backup.New(opts.BackupDir, opts.MaxBackups, opts.Logger),
	}
}

// ReadJSON reads the JSON file at path into a mapping. A missing file or
// malformed JSON is logged and yields an empty mapping.
func (s *Store) ReadJSON(path string) map[string]any {
	v, ok := s.read(path, codec.JSON{})
	if !ok {
		return map[string]any{}
	}
	return v.(map[string]any)
}

// WriteJSON writes v, which must be a map[string]any, to path as indented
// JSON. It fails with ErrInvalidType for any other value shape.
func (s *Store) WriteJSON(path string, v any) error {
	return s.write(path, codec.JSON{}, v)
}

// ReadXML reads the XML file at path into a flat string mapping, one entry
// per direct child of the root element. A missing file or malformed XML is
// logged and yields an empty mapping.
func (s *Store) ReadXML(path string) map[string]string {
	v, ok := s.read(path, codec.XML{})
	if !ok {
		return map[string]string{}
	}
	return v.(map[string]string)
}

// WriteXML writes v, which must be a map[string]string, to path as a
// <config> element with one child per key. It fails with ErrInvalidType for
// any other value shape.
func (s *Store) WriteXML(path string, v any) error {
	return s.write(path, codec.XML{}, v)
}

// ReadCSV reads the CSV file at path, treating the first row as the header,
// and returns one mapping per data row. A missing or unreadable file is
// logged and yields an empty slice.
func (s *Store) ReadCSV(path string) []map[string]string {
	v, ok := s.read(path, codec.CSV{})
	if !ok {
		return []map[string]string{}
	}
	return v.([]map[string]string)
}

// WriteCSV writes v, which must be a []map[string]string, to path with the
// header taken from the first row's keys. Rows beyond the first are not
// checked against the header, so heterogeneous keys produce ragged output.
// An empty slice is backed up but not written: a warning is logged and the
// target file is left as it was. Any other value shape fails with
// ErrInvalidType.
func (s *Store) WriteCSV(path string, v any) error {
	return s.write(path, codec.CSV{}, v)
}

// ReadYAML reads the YAML file at path into a mapping. A missing file or
// malformed YAML is logged and yields an empty mapping.
func (s *Store) ReadYAML(path string) map[string]any {
	v, ok := s.read(path, codec.YAML{})
	if !ok {
		return map[string]any{}
	}
	return v.(map[string]any)
}

// WriteYAML writes v, which must be a map[string]any, to path as YAML. It
// fails with ErrInvalidType for any other value shape.
func (s *Store) WriteYAML(path string, v any) error {
	return s.write(path, codec.YAML{}, v)
}

// Backups returns the backup file names recorded for path, newest first.
func (s *Store) Backups(path string) ([]string, error) {
	return s.backups.List(filepath.Base(path))
}

// RemoveBackups deletes every backup recorded for path and reports how many
// were removed.
func (s *Store) RemoveBackups(path string) (int, error) {
	return s.backups.RemoveAll(filepath.Base(path))
}

// read loads and decodes path with c. It reports ok=false, after logging,
// when the file cannot be read or decoded.
func (s *Store) read(path string, c codec.Codec) (any, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Error("failed to read file", "format", c.Name(), "path", path, "error", err)
		return nil, false
	}
	v, err := c.Decode(data)
	if err != nil {
		s.log.Error("failed to decode file", "format", c.Name(), "path", path, "error", err)
		return nil, false
	}
	s.log.Info("read file", "format", c.Name(), "path", path)
	return v, true
}

// write encodes v with c and commits the bytes to path, snapshotting and
// pruning any existing file first. Encoding runs before the snapshot so a
// wrong-shaped v fails without side effects; I/O failures past that point
// are logged and swallowed.
func (s *Store) write(path string, c codec.Codec, v any) error {
	data, err := c.Encode(v)
	if err != nil {
		s.log.Error("refusing to write file", "format", c.Name(), "path", path, "error", err)
		return err
	}

	s.snapshot(path)

	if data == nil {
		s.log.Warn("no data to write", "format", c.Name(), "path", path)
		return nil
	}

	if err := s.commit(path, data); err != nil {
		s.log.Error("failed to write file", "format", c.Name(), "path", path, "error", err)
		return nil
	}
	s.log.Info("wrote file", "format", c.Name(), "path", path)
	return nil
}

// snapshot backs up path and then prunes old backups for it. Failures here
// are logged and never block the write.
func (s *Store) snapshot(path string) {
	if _, err := s.backups.Create(path); err != nil {
		s.log.Error("failed to create backup", "path", path, "error", err)
	}
	if err := s.backups.Prune(filepath.Base(path)); err != nil {
		s.log.Error("failed to prune backups", "path", path, "error", err)
	}
}

// commit writes data to path through a temp file and rename so a failed
// write never leaves a truncated file behind.
func (s *Store) commit(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".config-write-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	tmpName = "" // disarm defer
	return nil
}
