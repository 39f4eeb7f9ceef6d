package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

const indexVersion = 1

// indexEntry is the summary of one note file, valid while its mtime matches.
type indexEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	ParentID     string    `json:"parentId,omitempty"`
	UpdatedAt    string    `json:"updated_at,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

func newIndexEntry(n core.Note, mtime time.Time) *indexEntry {
	return &indexEntry{
		ID:           n.ID,
		Title:        n.Metadata.Title,
		ParentID:     n.Metadata.ParentID,
		UpdatedAt:    n.Metadata.UpdatedAt,
		LastModified: mtime,
	}
}

func (e *indexEntry) summary(path string) core.Summary {
	return core.Summary{
		ID:        e.ID,
		Title:     e.Title,
		ParentID:  e.ParentID,
		UpdatedAt: e.UpdatedAt,
		Path:      path,
	}
}

// index is the persisted form of the summary cache.
type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // keyed by file name, e.g. "abc.md"
	dirty   bool
	loaded  bool
	mu      sync.RWMutex
}

// noteIndex loads, updates and saves <root>/<systemDir>/index.json.
type noteIndex struct {
	Path  string
	index *index
}

func newNoteIndex(root, systemDir string) *noteIndex {
	return &noteIndex{
		Path: filepath.Join(root, systemDir, "index.json"),
		index: &index{
			Version: indexVersion,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the index from disk once; later calls keep the in-memory
// state. A missing, corrupt or outdated file yields an empty index.
func (c *noteIndex) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()
	if c.index.loaded {
		return nil
	}

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		c.index.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}
	c.index.loaded = true

	if err := json.Unmarshal(data, c.index); err != nil || c.index.Version != indexVersion || c.index.Entries == nil {
		c.index.Version = indexVersion
		c.index.Entries = make(map[string]*indexEntry)
		c.index.dirty = true
		return nil
	}

	c.index.dirty = false
	return nil
}

// Save persists the index if it changed since the last Load or Save.
func (c *noteIndex) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := EnsureDirectory(filepath.Dir(c.Path)); err != nil {
		return err
	}
	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()
	return nil
}

// Get returns the entry for name if its recorded mtime equals mtime.
func (c *noteIndex) Get(name string, mtime time.Time) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[name]
	if !ok || !entry.LastModified.Equal(mtime) {
		return nil, false
	}
	return entry, true
}

func (c *noteIndex) Set(name string, entry *indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	c.index.Entries[name] = entry
	c.index.dirty = true
}

// Prune drops entries whose file name is not in keep.
func (c *noteIndex) Prune(keep map[string]bool) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	for name := range c.index.Entries {
		if !keep[name] {
			delete(c.index.Entries, name)
			c.index.dirty = true
		}
	}
}

func (c *noteIndex) Delete(name string) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	if _, ok := c.index.Entries[name]; ok {
		delete(c.index.Entries, name)
		c.index.dirty = true
	}
}

func (c *noteIndex) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}
