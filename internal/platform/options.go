package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

// options holds the internal configuration for opening a workspace.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	clock      func() time.Time
	systemDir  string
	forceTemp  bool
	mustExist  bool
	readOnly   bool
	devSafety  bool
}

// Option defines a functional option for configuring folio.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		logger:    slog.Default(),
		devSafety: true,
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithMustExist requires the workspace root to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithLogger sets the logger shared by the store and the workspace.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRepository injects a custom store (e.g. a mock).
// If provided, the filesystem store is skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithSystemDir sets the hidden directory name. Defaults to ".folio".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithClock replaces time.Now for note timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Create, Save, Delete and settings writes return core.ErrReadOnly.
// 2. The root is never created.
// 3. The summary index is not written back.
// 4. The dev sandbox is bypassed (uses the real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true) such runs are redirected to a temporary directory so
// the real notes folder is never touched.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}
