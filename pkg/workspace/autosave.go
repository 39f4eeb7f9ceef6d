package workspace

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

// DefaultAutosaveDelay is how long an edit waits for further edits before it is saved.
const DefaultAutosaveDelay = 500 * time.Millisecond

// Autosaver debounces edits per note and hands the last one to Workspace.Update.
// In-flight saves are never cancelled.
type Autosaver struct {
	ws    *Workspace
	ctx   context.Context
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEdit
}

type pendingEdit struct {
	note  core.Note
	timer *time.Timer
}

// NewAutosaver creates an autosaver for ws. Saves triggered by timers run
// with ctx. A non-positive delay uses DefaultAutosaveDelay.
func NewAutosaver(ctx context.Context, ws *Workspace, delay time.Duration) *Autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosaver{
		ws:      ws,
		ctx:     ctx,
		delay:   delay,
		pending: make(map[string]*pendingEdit),
	}
}

// Edit records the latest version of a note and restarts its timer.
func (a *Autosaver) Edit(note core.Note) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if p, ok := a.pending[note.ID]; ok {
		p.timer.Stop()
	}
	p := &pendingEdit{note: note.Clone()}
	p.timer = time.AfterFunc(a.delay, func() { a.fire(note.ID, p) })
	a.pending[note.ID] = p
}

func (a *Autosaver) fire(id string, p *pendingEdit) {
	a.mu.Lock()
	if a.pending[id] != p {
		a.mu.Unlock()
		return
	}
	delete(a.pending, id)
	a.mu.Unlock()

	// Update logs its own failures.
	_ = a.ws.Update(a.ctx, p.note)
}

// Pending returns the number of edits waiting for their timer.
func (a *Autosaver) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// Flush saves every pending edit now.
func (a *Autosaver) Flush(ctx context.Context) error {
	edits := a.take()
	var errs []error
	for _, p := range edits {
		if err := a.ws.Update(ctx, p.note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Stop drops pending edits without saving them.
func (a *Autosaver) Stop() {
	a.take()
}

func (a *Autosaver) take() []*pendingEdit {
	a.mu.Lock()
	defer a.mu.Unlock()

	edits := make([]*pendingEdit, 0, len(a.pending))
	for id, p := range a.pending {
		p.timer.Stop()
		edits = append(edits, p)
		delete(a.pending, id)
	}
	return edits
}
