package pastecmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/dannyswat/wikirego/internal/commands"
	"github.com/dannyswat/wikirego/internal/editor"
	"github.com/dannyswat/wikirego/internal/logging"
	"github.com/dannyswat/wikirego/pkg/interfaces"
)

const (
	clipboardOperation = "paste.clipboard"
	markdownOperation  = "paste.markdown"
)

// ErrMarkdownDialogDisabled is returned when the markdown dialog is turned
// off in configuration.
var ErrMarkdownDialogDisabled = errors.New("paste command: markdown dialog disabled")

var (
	_ command.Commander[ClipboardCommand] = (*ClipboardHandler)(nil)
	_ command.Commander[MarkdownCommand]  = (*MarkdownHandler)(nil)
)

// ResultFunc observes the outcome of a paste.
type ResultFunc func(ctx context.Context, slug string, result editor.PasteResult)

// ClipboardHandler applies clipboard paste events.
type ClipboardHandler struct {
	inner *commands.Handler[ClipboardCommand]
}

// NewClipboardHandler creates a handler bound to sessions.
func NewClipboardHandler(sessions commands.SessionSource, logger interfaces.Logger, onResult ResultFunc, opts ...commands.HandlerOption[ClipboardCommand]) *ClipboardHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ClipboardCommand) error {
		session, err := sessions.Session(ctx, msg.Slug)
		if err != nil {
			return err
		}
		result, err := session.HandlePaste(ctx, msg.Payload())
		if err != nil {
			return err
		}
		logging.WithPasteMode(logging.WithDocumentContext(baseLogger, "", msg.Slug), string(result.Mode)).
			Info("paste.command.clipboard.completed", "inserted_count", len(result.Inserted))
		if onResult != nil {
			onResult(ctx, msg.Slug, result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ClipboardCommand]{
		commands.WithLogger[ClipboardCommand](baseLogger),
		commands.WithOperation[ClipboardCommand](clipboardOperation),
		commands.WithMessageFields(func(msg ClipboardCommand) map[string]any {
			return map[string]any{
				"slug":       msg.Slug,
				"plain_size": len(msg.PlainText),
				"html_size":  len(msg.HTML),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ClipboardCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ClipboardHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ClipboardCommand].
func (h *ClipboardHandler) Execute(ctx context.Context, msg ClipboardCommand) error {
	return h.inner.Execute(ctx, msg)
}

// MarkdownHandler applies "paste markdown" dialog submissions.
type MarkdownHandler struct {
	inner *commands.Handler[MarkdownCommand]
}

// NewMarkdownHandler creates a handler bound to sessions.
func NewMarkdownHandler(sessions commands.SessionSource, logger interfaces.Logger, gates FeatureGates, onResult ResultFunc, opts ...commands.HandlerOption[MarkdownCommand]) *MarkdownHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg MarkdownCommand) error {
		if !gates.markdownDialogEnabled() {
			return ErrMarkdownDialogDisabled
		}
		session, err := sessions.Session(ctx, msg.Slug)
		if err != nil {
			return err
		}
		result, err := session.InsertMarkdown(ctx, msg.Markdown)
		if err != nil {
			return err
		}
		logging.WithDocumentContext(baseLogger, "", msg.Slug).
			Info("paste.command.markdown.completed", "inserted_count", len(result.Inserted))
		if onResult != nil {
			onResult(ctx, msg.Slug, result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[MarkdownCommand]{
		commands.WithLogger[MarkdownCommand](baseLogger),
		commands.WithOperation[MarkdownCommand](markdownOperation),
		commands.WithMessageFields(func(msg MarkdownCommand) map[string]any {
			return map[string]any{
				"slug":          msg.Slug,
				"markdown_size": len(msg.Markdown),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[MarkdownCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &MarkdownHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[MarkdownCommand].
func (h *MarkdownHandler) Execute(ctx context.Context, msg MarkdownCommand) error {
	return h.inner.Execute(ctx, msg)
}
