package fs

import (
	"sync"
	"time"

	"github.com/aretw0/folio/pkg/core"
)

// debouncer coalesces bursts of events for the same note id.
// A write through a temp file and rename usually produces several fsnotify
// events; only the last one (or the CREATE that started the burst) is emitted.
type debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*pendingEvent
	stopped bool
	wg      sync.WaitGroup
}

type pendingEvent struct {
	event core.Event
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]*pendingEvent),
	}
}

// add schedules emit for e, replacing any pending event with the same id.
func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if p, ok := d.pending[e.ID]; ok {
		if p.timer.Stop() {
			d.wg.Done()
		}
		e = merge(p.event, e)
	}

	p := &pendingEvent{event: e}
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.pending[e.ID] != p {
			d.mu.Unlock()
			return
		}
		delete(d.pending, e.ID)
		d.mu.Unlock()
		emit(p.event)
	})
	d.pending[e.ID] = p
}

// merge keeps a CREATE followed by modifications as a CREATE.
func merge(prev, next core.Event) core.Event {
	if prev.Type == core.EventCreate && next.Type == core.EventModify {
		next.Type = core.EventCreate
	}
	return next
}

// stopAndWait drops pending events and waits up to timeout for emits
// already in flight.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for id, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, id)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
