package fs

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Root          string `json:"root"`
	SystemDir     string `json:"system_dir"`
	ReadOnly      bool   `json:"read_only"`
	IndexSize     int    `json:"index_size"`
	WatcherActive bool   `json:"watcher_active"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	return StoreState{
		Root:          s.Root,
		SystemDir:     s.config.SystemDir,
		ReadOnly:      s.config.ReadOnly,
		IndexSize:     s.index.Len(),
		WatcherActive: s.watchers.Load() > 0,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
