package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/folio/pkg/core"
)

// WatchDebounce is the window in which events for the same note are coalesced.
const WatchDebounce = 50 * time.Millisecond

// Watch reports changes to notes in the root whose file name matches
// pattern (doublestar syntax, empty matches everything). The returned
// channel is closed once ctx is done.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.Root); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Root, err)
	}

	events := make(chan core.Event)
	w := &noteWatcher{
		store:     s,
		pattern:   pattern,
		watcher:   watcher,
		debouncer: newDebouncer(WatchDebounce),
		events:    events,
	}
	s.watchers.Add(1)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		s.logger().Debug("watcher goroutine exited", "root", s.Root, "error", err)
	}))
	return events, nil
}

type noteWatcher struct {
	store     *Store
	pattern   string
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	events    chan core.Event
}

func (w *noteWatcher) run(ctx context.Context) (err error) {
	log := w.store.logger()
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			// Stack traces only at debug level.
			if log.Enabled(ctx, slog.LevelDebug) {
				log.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				log.Error("watcher panic", "error", err)
			}
		}
	}()
	defer close(w.events)
	defer w.store.watchers.Add(-1)
	defer w.watcher.Close()

	err = w.loop(ctx)
	w.debouncer.stopAndWait(5 * time.Second)
	if err != nil {
		log.Error("watcher stopped", "root", w.store.Root, "error", err)
	}
	return err
}

func (w *noteWatcher) loop(ctx context.Context) error {
	log := w.store.logger()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			log.Debug("event received", "name", event.Name, "op", event.Op.String())
			w.handle(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Error("fsnotify error", "error", wErr)
		}
	}
}

func (w *noteWatcher) handle(ctx context.Context, event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if filepath.Dir(event.Name) != w.store.Root || filepath.Ext(name) != NoteExt || isTempFile(name) {
		return
	}
	if !matchPattern(w.pattern, name) {
		return
	}

	var typ core.EventType
	switch {
	case event.Has(fsnotify.Create):
		typ = core.EventCreate
	case event.Has(fsnotify.Write):
		typ = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		typ = core.EventDelete
	default:
		return
	}

	w.debouncer.add(core.Event{
		Type:      typ,
		ID:        strings.TrimSuffix(name, NoteExt),
		Timestamp: w.store.config.Clock().Unix(),
	}, func(e core.Event) {
		defer func() {
			// the channel may already be closed during shutdown
			_ = recover()
		}()
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

func matchPattern(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}
