package commands

import (
	"context"
	"time"

	"github.com/dannyswat/wikirego/internal/editor"
	"github.com/dannyswat/wikirego/internal/logging"
	"github.com/dannyswat/wikirego/pkg/interfaces"
)

// DefaultCommandTimeout bounds a single editor command.
const DefaultCommandTimeout = 30 * time.Second

// SessionSource resolves the editing session of a document by slug.
type SessionSource interface {
	Session(ctx context.Context, slug string) (*editor.Session, error)
}

// SessionSourceFunc adapts a function to SessionSource.
type SessionSourceFunc func(ctx context.Context, slug string) (*editor.Session, error)

// Session implements SessionSource.
func (fn SessionSourceFunc) Session(ctx context.Context, slug string) (*editor.Session, error) {
	return fn(ctx, slug)
}

// StaticSession serves the same session for every slug.
func StaticSession(session *editor.Session) SessionSource {
	return SessionSourceFunc(func(context.Context, string) (*editor.Session, error) {
		if session == nil {
			return nil, ErrSessionNotFound
		}
		return session, nil
	})
}

// EnsureContext returns a non-nil context, falling back to context.Background when nil.
func EnsureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// WithCommandTimeout applies the provided timeout unless it is zero or negative.
func WithCommandTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureLogger returns a usable logger, defaulting to a no-op logger when nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
