package platform_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/folio/internal/platform"
	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
)

func quiet() platform.Option {
	return platform.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestInit(t *testing.T) {
	t.Run("Creates Missing Root", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "MyNotes")

		repo, err := platform.Init(context.Background(), root, quiet())
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		store, ok := repo.(*fs.Store)
		if !ok {
			t.Fatalf("Expected fs store, got %T", repo)
		}
		if store.Root != root {
			t.Errorf("Expected root %s, got %s", root, store.Root)
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			t.Errorf("Root directory not created")
		}
	})

	t.Run("MustExist Fails if Missing", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "missing")

		if _, err := platform.Init(context.Background(), root, quiet(), platform.WithMustExist(true)); err == nil {
			t.Error("Expected failure for missing directory with MustExist")
		}
	})

	t.Run("Injected Repository Wins", func(t *testing.T) {
		injected := fs.NewStore(fs.Config{Root: t.TempDir()})

		repo, err := platform.Init(context.Background(), "/ignored", platform.WithRepository(injected))
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		if repo != injected {
			t.Error("Expected the injected repository")
		}
	})

	t.Run("Read Only", func(t *testing.T) {
		root := t.TempDir()

		repo, err := platform.Init(context.Background(), root, quiet(), platform.WithReadOnly(true))
		if err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		if err := repo.Save(context.Background(), core.Note{ID: "x"}); !errors.Is(err, core.ErrReadOnly) {
			t.Errorf("Expected ErrReadOnly, got %v", err)
		}
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	clock := func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	ws, err := platform.Open(ctx, root, quiet(), platform.WithClock(clock))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if ws.Theme() != core.ThemeDark {
		t.Errorf("Expected default theme, got %s", ws.Theme())
	}

	created, ok := ws.Create(ctx, "")
	if !ok {
		t.Fatal("Create failed")
	}
	if created.Metadata.CreatedAt != "2024-05-01T10:00:00.000Z" {
		t.Errorf("Clock not applied: %s", created.Metadata.CreatedAt)
	}
	if err := ws.SetTheme(ctx, core.ThemeLight); err != nil {
		t.Fatalf("SetTheme failed: %v", err)
	}

	// Reopening sees the note and the persisted theme.
	again, err := platform.Open(ctx, root, quiet())
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	if len(again.Notes()) != 1 || again.Notes()[0].ID != created.ID {
		t.Errorf("Expected the created note after reopen, got %+v", again.Notes())
	}
	if again.Theme() != core.ThemeLight {
		t.Errorf("Expected persisted light theme, got %s", again.Theme())
	}
}
