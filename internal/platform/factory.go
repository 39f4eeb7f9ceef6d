package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/workspace"
)

// Init prepares the store for the workspace at root and returns it.
//
//	repo, err := folio.Init(ctx, "~/Documents/MyNotes", folio.WithReadOnly(true))
func Init(ctx context.Context, root string, opts ...Option) (core.Repository, error) {
	o := apply(opts)
	if o.repository != nil {
		return o.repository, nil
	}

	useTemp := o.forceTemp || (IsDevRun() && o.devSafety && !o.readOnly)
	resolved := ResolveWorkspacePath(root, useTemp)
	if useTemp && resolved != root {
		o.logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", root, "resolved_path", resolved)
	}

	store := fs.NewStore(fs.Config{
		Root:      resolved,
		SystemDir: o.systemDir,
		MustExist: o.mustExist,
		ReadOnly:  o.readOnly,
		Logger:    o.logger,
		Clock:     o.clock,
	})
	if err := store.Initialize(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Open initializes the store at root and returns a loaded workspace over it,
// with the theme saved in the workspace settings.
func Open(ctx context.Context, root string, opts ...Option) (*workspace.Workspace, error) {
	repo, err := Init(ctx, root, opts...)
	if err != nil {
		return nil, err
	}

	o := apply(opts)
	wsOpts := []workspace.Option{workspace.WithLogger(o.logger)}
	if o.clock != nil {
		wsOpts = append(wsOpts, workspace.WithClock(o.clock))
	}
	ws := workspace.New(repo, wsOpts...)

	if err := ws.LoadTheme(ctx); err != nil {
		o.logger.Warn("using default theme", "error", err)
	}
	if err := ws.Load(ctx); err != nil {
		return nil, fmt.Errorf("open workspace: %w", err)
	}
	return ws, nil
}
