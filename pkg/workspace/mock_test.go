package workspace_test

import (
	"context"
	"fmt"
	"path"
	"sort"
	"sync"

	"github.com/aretw0/folio/pkg/core"
)

// MockRepository implements core.Repository, core.SettingsStore and
// core.Watchable in memory. Errors can be injected per operation.
type MockRepository struct {
	mu       sync.Mutex
	notes    map[string]core.Note
	settings core.Settings
	events   chan core.Event

	ListErr     error
	SaveErr     error
	CreateErr   error
	DeleteErr   error
	SettingsErr error

	// SaveGate, when set, holds every Save until it is closed.
	SaveGate chan struct{}

	Saved   []core.Note
	Deleted []string
}

func NewMockRepository(notes ...core.Note) *MockRepository {
	m := &MockRepository{
		notes:  make(map[string]core.Note),
		events: make(chan core.Event, 16),
	}
	for _, n := range notes {
		if n.Path == "" {
			n.Path = path.Join("/notes", n.ID+".md")
		}
		m.notes[n.ID] = n
	}
	return m
}

func (m *MockRepository) Initialize(ctx context.Context) error { return nil }

func (m *MockRepository) List(ctx context.Context) ([]core.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var notes []core.Note
	for _, n := range m.notes {
		notes = append(notes, n.Clone())
	}
	// Sort for deterministic tests
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	return notes, nil
}

func (m *MockRepository) Get(ctx context.Context, id string) (core.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok {
		return core.Note{}, core.ErrNotFound
	}
	return n.Clone(), nil
}

func (m *MockRepository) Save(ctx context.Context, n core.Note) error {
	if m.SaveGate != nil {
		<-m.SaveGate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if n.Path == "" {
		n.Path = path.Join("/notes", n.ID+".md")
	}
	m.notes[n.ID] = n.Clone()
	m.Saved = append(m.Saved, n.Clone())
	return nil
}

func (m *MockRepository) Create(ctx context.Context, n core.Note) (core.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return core.Note{}, m.CreateErr
	}
	n.Path = path.Join("/notes", n.ID+".md")
	m.notes[n.ID] = n.Clone()
	return n, nil
}

func (m *MockRepository) Delete(ctx context.Context, location string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for id, n := range m.notes {
		if n.Path == location {
			delete(m.notes, id)
			m.Deleted = append(m.Deleted, location)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", core.ErrNotFound, location)
}

func (m *MockRepository) LoadSettings(ctx context.Context) (core.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings.Theme == "" {
		return core.Settings{Theme: core.DefaultTheme}, nil
	}
	return m.settings, nil
}

func (m *MockRepository) SaveSettings(ctx context.Context, s core.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SettingsErr != nil {
		return m.SettingsErr
	}
	m.settings = s
	return nil
}

func (m *MockRepository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	return m.events, nil
}

// Put writes a note behind the workspace's back, as another process would.
func (m *MockRepository) Put(n core.Note) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.Path = path.Join("/notes", n.ID+".md")
	m.notes[n.ID] = n
}

func (m *MockRepository) SavedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Saved)
}

func (m *MockRepository) LastSaved() core.Note {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saved[len(m.Saved)-1]
}

// plainRepository hides the optional interfaces of the wrapped repository.
type plainRepository struct {
	core.Repository
}
