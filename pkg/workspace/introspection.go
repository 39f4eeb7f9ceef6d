package workspace

import (
	"github.com/aretw0/introspection"

	"github.com/aretw0/folio/pkg/core"
)

// State is a snapshot of the workspace for observability.
type State struct {
	Notes      int        `json:"notes"`
	SelectedID string     `json:"selected_id,omitempty"`
	Loading    bool       `json:"loading"`
	Theme      core.Theme `json:"theme"`
}

// State implements introspection.Introspectable.
func (w *Workspace) State() any {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return State{
		Notes:      len(w.notes),
		SelectedID: w.selectedID,
		Loading:    w.loading,
		Theme:      w.theme,
	}
}

// ComponentType implements introspection.Component.
func (w *Workspace) ComponentType() string {
	return "workspace"
}

var _ introspection.Introspectable = (*Workspace)(nil)
var _ introspection.Component = (*Workspace)(nil)
