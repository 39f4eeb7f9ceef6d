package folio

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/folio/internal/platform"
	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/workspace"
)

// Version of the library and the folio command. Overridden at link time.
var Version = "0.1.0-dev"

// --- Configuration ---

// Option defines a functional option for configuring Folio.
type Option = platform.Option

// ErrRootNotFound is returned by FindRoot when no workspace marker exists.
var ErrRootNotFound = platform.ErrRootNotFound

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the workspace directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the store and the workspace.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".folio").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithClock replaces time.Now for note timestamps.
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// WithReadOnly opens the workspace without write access.
func WithReadOnly(readOnly bool) Option {
	return platform.WithReadOnly(readOnly)
}

// WithDevSafety toggles the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// Init prepares the note store at root.
func Init(ctx context.Context, root string, opts ...Option) (core.Repository, error) {
	return platform.Init(ctx, root, opts...)
}

// Open returns a loaded workspace over the notes at root.
func Open(ctx context.Context, root string, opts ...Option) (*workspace.Workspace, error) {
	return platform.Open(ctx, root, opts...)
}

// --- Safety & Utils ---

// ResolveWorkspacePath determines the actual root based on safety rules.
func ResolveWorkspacePath(userPath string, forceTemp bool) string {
	return platform.ResolveWorkspacePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// DefaultRoot returns ~/Documents/MyNotes.
func DefaultRoot() (string, error) {
	return platform.DefaultRoot()
}

// FindRoot looks upwards from startDir for a directory holding a ".folio" folder.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir, fs.DefaultSystemDir)
}
