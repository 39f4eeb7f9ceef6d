// Package workspace keeps an in-memory mirror of the notes in a store,
// together with the current selection and theme.
//
// Mutations go to the store first except Update, which is optimistic:
// the mirror changes immediately and is rolled back if the save fails.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/folio/pkg/core"
)

// Defaults for notes created through the workspace.
const (
	DefaultTitle = "Untitled"
	DefaultEmoji = "📄"
)

// Workspace is the in-memory view of one store.
// It is safe for concurrent use; the lock is never held across store calls.
type Workspace struct {
	repo   core.Repository
	logger *slog.Logger
	clock  func() time.Time
	newID  func() string

	mu         sync.RWMutex
	notes      []core.Note
	revs       map[string]uint64 // bumped on every optimistic update
	selectedID string
	loading    bool
	theme      core.Theme
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithClock replaces time.Now for the timestamps of new notes.
func WithClock(clock func() time.Time) Option {
	return func(w *Workspace) {
		if clock != nil {
			w.clock = clock
		}
	}
}

// WithIDGenerator replaces the random UUID generator for new note ids.
func WithIDGenerator(gen func() string) Option {
	return func(w *Workspace) {
		if gen != nil {
			w.newID = gen
		}
	}
}

// WithTheme sets the initial theme.
func WithTheme(t core.Theme) Option {
	return func(w *Workspace) {
		if t != "" {
			w.theme = t
		}
	}
}

// New creates an empty workspace over repo. Call Load to fill it.
func New(repo core.Repository, opts ...Option) *Workspace {
	w := &Workspace{
		repo:   repo,
		logger: slog.Default(),
		clock:  time.Now,
		newID:  uuid.NewString,
		revs:   make(map[string]uint64),
		theme:  core.DefaultTheme,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Repository returns the store behind the workspace.
func (w *Workspace) Repository() core.Repository {
	return w.repo
}

// Notes returns a copy of the mirrored notes, most recently updated first.
func (w *Workspace) Notes() []core.Note {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]core.Note, len(w.notes))
	for i, n := range w.notes {
		out[i] = n.Clone()
	}
	return out
}

// Get returns the mirrored note with the given id.
func (w *Workspace) Get(id string) (core.Note, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if i := w.indexOf(id); i >= 0 {
		return w.notes[i].Clone(), true
	}
	return core.Note{}, false
}

// SelectedID returns the selected note id, or "" when nothing is selected.
func (w *Workspace) SelectedID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.selectedID
}

// Selected returns the selected note, if the selection points at a mirrored note.
func (w *Workspace) Selected() (core.Note, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.selectedID == "" {
		return core.Note{}, false
	}
	if i := w.indexOf(w.selectedID); i >= 0 {
		return w.notes[i].Clone(), true
	}
	return core.Note{}, false
}

// Loading reports whether a Load is in progress.
func (w *Workspace) Loading() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loading
}

func (w *Workspace) Theme() core.Theme {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.theme
}

func (w *Workspace) indexOf(id string) int {
	return slices.IndexFunc(w.notes, func(n core.Note) bool { return n.ID == id })
}

// Load replaces the mirror with the store contents, sorted by updated_at
// descending. Notes without a valid updated_at sort last in their original
// order. On failure the mirror is left unchanged.
func (w *Workspace) Load(ctx context.Context) error {
	w.setLoading(true)
	defer w.setLoading(false)

	notes, err := w.repo.List(ctx)
	if err != nil {
		w.logger.Error("failed to load notes", "error", err)
		return fmt.Errorf("load notes: %w", err)
	}
	SortByUpdated(notes)

	w.mu.Lock()
	w.notes = notes
	// Saves still in flight must not roll back over reloaded notes.
	for id := range w.revs {
		w.revs[id]++
	}
	w.mu.Unlock()

	w.logger.Debug("notes loaded", "count", len(notes))
	return nil
}

func (w *Workspace) setLoading(v bool) {
	w.mu.Lock()
	w.loading = v
	w.mu.Unlock()
}

// SortByUpdated sorts notes by updated_at, newest first. The sort is stable
// and notes with a missing or unparseable timestamp sort as oldest.
func SortByUpdated(notes []core.Note) {
	slices.SortStableFunc(notes, func(a, b core.Note) int {
		ta, okA := a.Updated()
		tb, okB := b.Updated()
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})
}

// Select points the selection at id. An empty id clears it.
// The id is not checked against the mirror.
func (w *Workspace) Select(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selectedID = id
}

// Create persists a new empty note under parentID ("" for a top-level note),
// prepends it to the mirror and selects it. On failure the error is logged
// and the mirror is left unchanged.
func (w *Workspace) Create(ctx context.Context, parentID string) (core.Note, bool) {
	now := core.FormatTime(w.clock())
	note := core.Note{
		ID: w.newID(),
		Metadata: core.Metadata{
			Title:     DefaultTitle,
			Emoji:     DefaultEmoji,
			ParentID:  parentID,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	created, err := w.repo.Create(ctx, note)
	if err != nil {
		w.logger.Error("failed to create note", "id", note.ID, "error", err)
		return core.Note{}, false
	}

	w.mu.Lock()
	w.notes = append([]core.Note{created.Clone()}, w.notes...)
	w.selectedID = created.ID
	w.mu.Unlock()

	w.logger.Debug("note created", "id", created.ID, "parent", parentID)
	return created, true
}

// Update replaces the mirrored note with the same id, then saves it.
// If the save fails and no later update touched the note, the previous
// version is restored.
func (w *Workspace) Update(ctx context.Context, note core.Note) error {
	w.mu.Lock()
	i := w.indexOf(note.ID)
	var previous core.Note
	if i >= 0 {
		previous = w.notes[i]
		w.notes[i] = note.Clone()
	}
	w.revs[note.ID]++
	rev := w.revs[note.ID]
	w.mu.Unlock()

	err := w.repo.Save(ctx, note)
	if err == nil {
		return nil
	}

	w.logger.Error("failed to save note", "id", note.ID, "error", err)
	if i >= 0 {
		w.mu.Lock()
		if w.revs[note.ID] == rev {
			if j := w.indexOf(note.ID); j >= 0 {
				w.notes[j] = previous
			}
		}
		w.mu.Unlock()
	}
	return fmt.Errorf("save note %s: %w", note.ID, err)
}

// Delete removes the note stored at path. The mirror entry and a selection
// pointing at it are only dropped once the store confirms the removal.
func (w *Workspace) Delete(ctx context.Context, id, path string) error {
	if err := w.repo.Delete(ctx, path); err != nil {
		w.logger.Error("failed to delete note", "id", id, "path", path, "error", err)
		return fmt.Errorf("delete note %s: %w", id, err)
	}

	w.mu.Lock()
	w.notes = slices.DeleteFunc(w.notes, func(n core.Note) bool { return n.ID == id })
	delete(w.revs, id)
	if w.selectedID == id {
		w.selectedID = ""
	}
	w.mu.Unlock()

	w.logger.Debug("note deleted", "id", id)
	return nil
}

// SetTheme changes the theme and persists it when the store keeps settings.
// The in-memory theme changes even if persisting fails.
func (w *Workspace) SetTheme(ctx context.Context, theme core.Theme) error {
	if _, err := core.ParseTheme(string(theme)); err != nil {
		return err
	}

	w.mu.Lock()
	w.theme = theme
	w.mu.Unlock()

	settings, ok := w.repo.(core.SettingsStore)
	if !ok {
		return nil
	}
	if err := settings.SaveSettings(ctx, core.Settings{Theme: theme}); err != nil {
		w.logger.Error("failed to persist theme", "theme", theme, "error", err)
		return fmt.Errorf("persist theme: %w", err)
	}
	return nil
}

// LoadTheme restores the theme saved by the store, if it keeps settings.
func (w *Workspace) LoadTheme(ctx context.Context) error {
	settings, ok := w.repo.(core.SettingsStore)
	if !ok {
		return nil
	}
	s, err := settings.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if s.Theme != "" {
		w.mu.Lock()
		w.theme = s.Theme
		w.mu.Unlock()
	}
	return nil
}
