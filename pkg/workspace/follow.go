package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/folio/pkg/core"
)

// ErrNotWatchable is returned by Follow when the store cannot report changes.
var ErrNotWatchable = errors.New("repository does not support watching")

// Follow reloads the mirror whenever the store reports a change, until ctx
// is done. Events that arrive while a reload runs are folded into the next one.
func (w *Workspace) Follow(ctx context.Context) error {
	watchable, ok := w.repo.(core.Watchable)
	if !ok {
		return ErrNotWatchable
	}
	events, err := watchable.Watch(ctx, "")
	if err != nil {
		return fmt.Errorf("watch store: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				w.logger.Debug("store changed", "event", e.String())
				more := drain(events)
				w.reload(ctx)
				if !more {
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		w.logger.Error("follow stopped", "error", err)
	}))
	return nil
}

func (w *Workspace) reload(ctx context.Context) {
	if err := w.Load(ctx); err != nil && ctx.Err() == nil {
		w.logger.Warn("reload after change failed", "error", err)
	}
}

// drain discards queued events. It returns false if the channel was closed.
func drain(events <-chan core.Event) bool {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}
