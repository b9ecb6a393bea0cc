package cli

import (
	"context"

	"github.com/zoro11031/webwatcher/internal/watch"
)

// EventSource is the consuming side of an observer.
type EventSource interface {
	Events() <-chan watch.Event
	Errors() <-chan error
}

// EventRenderer writes one event.
type EventRenderer interface {
	Render(event watch.Event) error
}

// Stream renders events from source until a watch or render error occurs
// or ctx is cancelled. Cancellation is not an error.
func Stream(ctx context.Context, source EventSource, renderer EventRenderer) error {
	for {
		select {
		case event := <-source.Events():
			if err := renderer.Render(event); err != nil {
				return err
			}
		case err := <-source.Errors():
			return err
		case <-ctx.Done():
			return nil
		}
	}
}
