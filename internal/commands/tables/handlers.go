package tablescmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/dannyswat/wikirego/internal/commands"
	"github.com/dannyswat/wikirego/internal/logging"
	"github.com/dannyswat/wikirego/internal/tables"
	"github.com/dannyswat/wikirego/pkg/interfaces"
)

var (
	_ command.Commander[ApplyCommand]           = (*Handler[ApplyCommand])(nil)
	_ command.Commander[DeleteRowCommand]       = (*Handler[DeleteRowCommand])(nil)
	_ command.Commander[ToggleHeaderRowCommand] = (*Handler[ToggleHeaderRowCommand])(nil)
)

// Result is the outcome of one table command.
type Result struct {
	Slug      string
	Operation tables.Operation
	// Applied is false when the selection was outside a table.
	Applied bool
}

// ResultFunc observes table command outcomes.
type ResultFunc func(ctx context.Context, result Result)

// Handler runs one table message type through the shared command handler.
type Handler[T TableMessage] struct {
	inner *commands.Handler[T]
}

// NewHandler binds a table message type to sessions. A selection outside a
// table is not an error: it is logged at debug level and reported to
// onResult as not applied.
func NewHandler[T TableMessage](sessions commands.SessionSource, logger interfaces.Logger, onResult ResultFunc, opts ...commands.HandlerOption[T]) *Handler[T] {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg T) error {
		slug, op := msg.target()
		session, err := sessions.Session(ctx, slug)
		if err != nil {
			return err
		}
		applied, err := session.ApplyTableCommand(ctx, op)
		if err != nil {
			return err
		}
		if !applied {
			logging.WithDocumentContext(baseLogger, "", slug).
				Debug("tables.command.ignored", "operation", op)
		}
		if onResult != nil {
			onResult(ctx, Result{Slug: slug, Operation: op, Applied: applied})
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[T]{
		commands.WithLogger[T](baseLogger),
		commands.WithOperation[T]("tables.apply"),
		commands.WithMessageFields(func(msg T) map[string]any {
			slug, op := msg.target()
			return map[string]any{
				"slug":            slug,
				"table_operation": string(op),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[T](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &Handler[T]{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[T].
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	return h.inner.Execute(ctx, msg)
}
