package workspace

import (
	"github.com/aretw0/folio/pkg/core"
)

// Node is a note with its children, as linked by parentId.
type Node struct {
	Note     core.Note `json:"note"`
	Children []Node    `json:"children,omitempty"`
}

// Children returns the notes whose parent is parentID, in mirror order.
// With an empty parentID it returns the top-level notes, which include
// notes whose parent is not in the mirror.
func (w *Workspace) Children(parentID string) []core.Note {
	w.mu.RLock()
	defer w.mu.RUnlock()

	known := w.knownIDs()
	var out []core.Note
	for _, n := range w.notes {
		if effectiveParent(n, known) == parentID {
			out = append(out, n.Clone())
		}
	}
	return out
}

// Tree returns the whole mirror as a forest. Notes caught in a parent cycle
// are attached at the top level.
func (w *Workspace) Tree() []Node {
	w.mu.RLock()
	defer w.mu.RUnlock()

	known := w.knownIDs()
	byParent := make(map[string][]core.Note)
	for _, n := range w.notes {
		p := effectiveParent(n, known)
		byParent[p] = append(byParent[p], n)
	}

	visited := make(map[string]bool, len(w.notes))
	var build func(n core.Note) Node
	build = func(n core.Note) Node {
		visited[n.ID] = true
		node := Node{Note: n.Clone()}
		for _, child := range byParent[n.ID] {
			if !visited[child.ID] {
				node.Children = append(node.Children, build(child))
			}
		}
		return node
	}

	var roots []Node
	for _, n := range byParent[""] {
		roots = append(roots, build(n))
	}
	for _, n := range w.notes {
		if !visited[n.ID] {
			roots = append(roots, build(n))
		}
	}
	return roots
}

func (w *Workspace) knownIDs() map[string]bool {
	known := make(map[string]bool, len(w.notes))
	for _, n := range w.notes {
		known[n.ID] = true
	}
	return known
}

func effectiveParent(n core.Note, known map[string]bool) string {
	p := n.Metadata.ParentID
	if p == "" || p == n.ID || !known[p] {
		return ""
	}
	return p
}
