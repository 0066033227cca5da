package notify

import (
	"context"

	"go.uber.org/multierr"
)

// Notifier delivers a short, transient notice to whoever triggered an action.
type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans a notice out to every sink. A failing sink does not stop the
// others; all errors are returned combined.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Send(ctx, title, text))
	}
	return errs
}

// Nop drops every notice.
type Nop struct{}

func (Nop) Send(context.Context, string, string) error { return nil }
