// Package lifecycle exposes notebook events as a lifecycle.Source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notely/pkg/core"
)

// Subscriber is implemented by notebook.Service.
type Subscriber interface {
	Subscribe(ctx context.Context) <-chan core.Event
}

type notebookSource struct {
	sub Subscriber
	out chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits notebook events.
// The subscription is taken on Start and ends with its context.
func NewSource(sub Subscriber) lifecycle.Source {
	return &notebookSource{
		sub: sub,
		out: make(chan lifecycle.Event),
	}
}

func (s *notebookSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *notebookSource) Start(ctx context.Context) error {
	events := s.sub.Subscribe(ctx)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				// core.Event implements lifecycle.Event through String.
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
