// Package lifecycle exposes store change events as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/folio/pkg/core"
)

type noteSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource wraps a store event channel. Events are forwarded after Start
// and the output closes when the input closes or ctx ends.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &noteSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *noteSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *noteSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
