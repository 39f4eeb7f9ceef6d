package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
)

func waitForEvent(t *testing.T, events <-chan core.Event, want core.EventType, id string) {
	t.Helper()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case e, ok := <-events:
			if !ok {
				t.Fatalf("events channel closed while waiting for %s %s", want, id)
			}
			if e.ID == id && e.Type == want {
				return
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s %s", want, id)
		}
	}
}

func waitForWatcher(t *testing.T, store *fs.Store, expected bool) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		state, ok := store.State().(fs.StoreState)
		if ok && state.WatcherActive == expected {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for watcher state = %v", expected)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatch(t *testing.T) {
	store, root, _ := setupStore(t)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx, "")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	waitForWatcher(t, store, true)

	n, err := store.Create(context.Background(), core.Note{ID: "watched", Content: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	waitForEvent(t, events, core.EventCreate, "watched")

	// Files that are not notes produce no events.
	os.WriteFile(filepath.Join(root, "ignored.txt"), []byte("x"), 0644)

	if err := store.Delete(context.Background(), n.Path); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	waitForEvent(t, events, core.EventDelete, "watched")

	cancel()
	deadline := time.After(3 * time.Second)
	for closed := false; !closed; {
		select {
		case _, ok := <-events:
			closed = !ok
		case <-deadline:
			t.Fatal("events channel not closed after cancel")
		}
	}
	waitForWatcher(t, store, false)
}

func TestWatch_Pattern(t *testing.T) {
	store, root, _ := setupStore(t)
	store.Initialize(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx, "daily-*.md")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	waitForWatcher(t, store, true)

	os.WriteFile(filepath.Join(root, "other.md"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(root, "daily-1.md"), []byte("x"), 0644)

	select {
	case e := <-events:
		if e.ID != "daily-1" {
			t.Errorf("expected only daily-1 events, got %v", e)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for daily-1")
	}
}

func TestWatch_InvalidPattern(t *testing.T) {
	store, _, _ := setupStore(t)
	store.Initialize(context.Background())

	if _, err := store.Watch(context.Background(), "[unclosed"); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
