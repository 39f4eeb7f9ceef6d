package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/folio/pkg/core"
)

// DefaultSystemDir holds the index and settings inside the workspace root.
const DefaultSystemDir = ".folio"

const settingsFile = "settings.yaml"

// Store implements core.Repository on a flat directory of Markdown files.
type Store struct {
	Root   string
	config Config
	index  *noteIndex

	watchers atomic.Int32
}

// Config holds the configuration for the filesystem store.
type Config struct {
	Root      string
	SystemDir string // defaults to DefaultSystemDir
	MustExist bool   // fail instead of creating a missing root
	ReadOnly  bool
	Logger    *slog.Logger
	Clock     func() time.Time // defaults to time.Now
}

// NewStore creates a store bound to config.Root.
func NewStore(config Config) *Store {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}
	root := config.Root
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	config.Root = root

	return &Store{
		Root:   root,
		config: config,
		index:  newNoteIndex(root, config.SystemDir),
	}
}

// EnsureDirectory creates path and its parents if needed.
// An existing directory is left untouched; an existing file is an error.
func EnsureDirectory(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", path)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}

func (s *Store) logger() *slog.Logger {
	if s.config.Logger != nil {
		return s.config.Logger
	}
	return slog.Default()
}

func (s *Store) now() string {
	return core.FormatTime(s.config.Clock())
}

// Initialize makes sure the root directory exists.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Root)
		if os.IsNotExist(err) {
			return fmt.Errorf("workspace root does not exist: %s", s.Root)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("workspace root is not a directory: %s", s.Root)
		}
		return nil
	}
	return EnsureDirectory(s.Root)
}

// Locate returns the file a note with the given id is stored in.
func (s *Store) Locate(id string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.Root, id+NoteExt), nil
}

func validateID(id string) error {
	switch {
	case id == "", id == ".", id == "..":
		return fmt.Errorf("%w: %q", core.ErrInvalidID, id)
	case strings.ContainsAny(id, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", core.ErrInvalidID, id)
	case isTempFile(id):
		return fmt.Errorf("%w: %q uses a reserved prefix", core.ErrInvalidID, id)
	}
	return nil
}

// noteFiles returns the *.md regular files directly under the root, sorted by name.
func (s *Store) noteFiles() ([]os.DirEntry, error) {
	if !s.config.ReadOnly {
		if err := EnsureDirectory(s.Root); err != nil {
			return nil, err
		}
	}
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace root: %w", err)
	}

	files := entries[:0]
	for _, e := range entries {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) != NoteExt || isTempFile(e.Name()) {
			continue
		}
		files = append(files, e)
	}
	return files, nil
}

// List parses every note in the root. Files that cannot be read or parsed
// are logged and skipped.
func (s *Store) List(ctx context.Context) ([]core.Note, error) {
	files, err := s.noteFiles()
	if err != nil {
		return nil, err
	}
	if err := s.index.Load(); err != nil {
		s.logger().Debug("ignoring unreadable index", "error", err)
	}

	notes := make([]core.Note, 0, len(files))
	seen := make(map[string]bool, len(files))
	for _, e := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.Root, e.Name())
		note, err := s.readNote(strings.TrimSuffix(e.Name(), NoteExt), path)
		if err != nil {
			s.logger().Warn("skipping unreadable note", "path", path, "error", err)
			continue
		}
		seen[e.Name()] = true
		if info, err := e.Info(); err == nil {
			s.index.Set(e.Name(), newIndexEntry(note, info.ModTime()))
		}
		notes = append(notes, note)
	}

	s.index.Prune(seen)
	s.saveIndex()
	return notes, nil
}

// Summaries lists notes without parsing files whose mtime is unchanged
// since they were last indexed.
func (s *Store) Summaries(ctx context.Context) ([]core.Summary, error) {
	files, err := s.noteFiles()
	if err != nil {
		return nil, err
	}
	if err := s.index.Load(); err != nil {
		s.logger().Debug("ignoring unreadable index", "error", err)
	}

	out := make([]core.Summary, 0, len(files))
	seen := make(map[string]bool, len(files))
	for _, e := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(s.Root, e.Name())

		entry, hit := s.index.Get(e.Name(), info.ModTime())
		if !hit {
			note, err := s.readNote(strings.TrimSuffix(e.Name(), NoteExt), path)
			if err != nil {
				s.logger().Warn("skipping unreadable note", "path", path, "error", err)
				continue
			}
			entry = newIndexEntry(note, info.ModTime())
			s.index.Set(e.Name(), entry)
		}
		seen[e.Name()] = true
		out = append(out, entry.summary(path))
	}

	s.index.Prune(seen)
	s.saveIndex()
	return out, nil
}

func (s *Store) saveIndex() {
	if s.config.ReadOnly {
		return
	}
	if err := s.index.Save(); err != nil {
		s.logger().Warn("failed to save index", "path", s.index.Path, "error", err)
	}
}

// Get retrieves a note by its ID.
func (s *Store) Get(ctx context.Context, id string) (core.Note, error) {
	path, err := s.Locate(id)
	if err != nil {
		return core.Note{}, err
	}
	return s.readNote(id, path)
}

func (s *Store) readNote(id, path string) (core.Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Note{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return core.Note{}, fmt.Errorf("failed to read note: %w", err)
	}
	meta, content, err := Parse(data)
	if err != nil {
		return core.Note{}, &core.ParseError{Path: path, Err: err}
	}
	return core.Note{ID: id, Content: content, Metadata: meta, Path: path}, nil
}

// Save writes the note to <root>/<id>.md, replacing any previous version.
// updated_at is set to the current time.
func (s *Store) Save(ctx context.Context, n core.Note) error {
	_, err := s.write(n)
	return err
}

// Create stamps created_at if it is empty, then saves the note.
func (s *Store) Create(ctx context.Context, n core.Note) (core.Note, error) {
	n = n.Clone()
	if n.Metadata.CreatedAt == "" {
		n.Metadata.CreatedAt = s.now()
	}
	return s.write(n)
}

func (s *Store) write(n core.Note) (core.Note, error) {
	if s.config.ReadOnly {
		return core.Note{}, core.ErrReadOnly
	}
	path, err := s.Locate(n.ID)
	if err != nil {
		return core.Note{}, err
	}

	meta := n.Metadata.Clone()
	meta.UpdatedAt = s.now()
	data, err := Serialize(meta, n.Content)
	if err != nil {
		return core.Note{}, fmt.Errorf("failed to serialize note %s: %w", n.ID, err)
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return core.Note{}, fmt.Errorf("failed to write note %s: %w", n.ID, err)
	}

	s.logger().Debug("saved note", "id", n.ID, "path", path)
	return core.Note{ID: n.ID, Content: n.Content, Metadata: meta, Path: path}, nil
}

// Delete removes the note file at location. Locations that are not a note
// file directly inside the root are rejected with core.ErrUnauthorized
// before the filesystem is touched.
func (s *Store) Delete(ctx context.Context, location string) error {
	path, err := s.authorize(location)
	if err != nil {
		return err
	}
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}

	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", core.ErrNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat note: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", core.ErrUnauthorized, path)
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, path)
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}
	s.index.Delete(filepath.Base(path))
	s.logger().Debug("deleted note", "path", path)
	return nil
}

func (s *Store) authorize(location string) (string, error) {
	if location == "" || !filepath.IsAbs(location) {
		return "", fmt.Errorf("%w: %q", core.ErrUnauthorized, location)
	}
	path := filepath.Clean(location)
	if filepath.Dir(path) != s.Root || filepath.Ext(path) != NoteExt || isTempFile(path) {
		return "", fmt.Errorf("%w: %q", core.ErrUnauthorized, location)
	}
	return path, nil
}

// LoadSettings reads <root>/<systemDir>/settings.yaml.
// A missing file yields the default settings.
func (s *Store) LoadSettings(ctx context.Context) (core.Settings, error) {
	settings := core.Settings{Theme: core.DefaultTheme}

	path := s.settingsPath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return core.Settings{Theme: core.DefaultTheme}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if _, err := core.ParseTheme(string(settings.Theme)); err != nil {
		s.logger().Warn("ignoring invalid theme in settings", "path", path, "error", err)
		settings.Theme = core.DefaultTheme
	}
	return settings, nil
}

// SaveSettings writes settings next to the index.
func (s *Store) SaveSettings(ctx context.Context, settings core.Settings) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	path := s.settingsPath()
	if err := EnsureDirectory(filepath.Dir(path)); err != nil {
		return err
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func (s *Store) settingsPath() string {
	return filepath.Join(s.Root, s.config.SystemDir, settingsFile)
}
