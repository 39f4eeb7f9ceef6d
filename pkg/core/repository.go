package core

import "context"

// Repository defines the contract for storing and retrieving notes.
// Adhering to this interface keeps the workspace independent of the
// underlying storage mechanism.
type Repository interface {
	// Initialize ensures the underlying storage is ready (e.g. creates the root directory).
	Initialize(ctx context.Context) error

	// List returns every readable note. Units that fail to parse are skipped,
	// so a nil error may come with partial results.
	List(ctx context.Context) ([]Note, error)

	// Get retrieves a note by its ID.
	Get(ctx context.Context, id string) (Note, error)

	// Save persists a note, creating or overwriting it. updated_at is
	// refreshed by the store.
	Save(ctx context.Context, n Note) error

	// Create stamps created_at when absent, saves, and returns the persisted note.
	Create(ctx context.Context, n Note) (Note, error)

	// Delete removes the note stored at location (a Note.Path).
	Delete(ctx context.Context, location string) error
}

// Watchable defines an interface for repositories that can report changes.
type Watchable interface {
	// Watch emits an Event for each change to a note matching pattern.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// SettingsStore is implemented by repositories that persist workspace settings.
type SettingsStore interface {
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

// Indexer is implemented by repositories able to list notes without reading their bodies.
type Indexer interface {
	Summaries(ctx context.Context) ([]Summary, error)
}
