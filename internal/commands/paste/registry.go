package pastecmd

import (
	"errors"

	"github.com/dannyswat/wikirego/internal/commands"
	"github.com/dannyswat/wikirego/pkg/interfaces"
)

// CommandRegistry is the registration contract expected when wiring command
// handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the paste command handlers.
type HandlerSet struct {
	Clipboard *ClipboardHandler
	Markdown  *MarkdownHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	clipboardOpts []commands.HandlerOption[ClipboardCommand]
	markdownOpts  []commands.HandlerOption[MarkdownCommand]
	onResult      ResultFunc
}

// WithClipboardHandlerOptions forwards options to NewClipboardHandler.
func WithClipboardHandlerOptions(opts ...commands.HandlerOption[ClipboardCommand]) Option {
	return func(cfg *options) {
		cfg.clipboardOpts = append(cfg.clipboardOpts, opts...)
	}
}

// WithMarkdownHandlerOptions forwards options to NewMarkdownHandler.
func WithMarkdownHandlerOptions(opts ...commands.HandlerOption[MarkdownCommand]) Option {
	return func(cfg *options) {
		cfg.markdownOpts = append(cfg.markdownOpts, opts...)
	}
}

// WithResultFunc observes every paste outcome.
func WithResultFunc(fn ResultFunc) Option {
	return func(cfg *options) {
		cfg.onResult = fn
	}
}

// RegisterPasteCommands builds the paste handlers and registers them with
// reg when reg is not nil.
func RegisterPasteCommands(reg CommandRegistry, sessions commands.SessionSource, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if sessions == nil {
		return nil, errors.New("paste command registration: session source is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "paste")
	set := &HandlerSet{
		Clipboard: NewClipboardHandler(sessions, logger, cfg.onResult, cfg.clipboardOpts...),
		Markdown:  NewMarkdownHandler(sessions, logger, gates, cfg.onResult, cfg.markdownOpts...),
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Clipboard); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Markdown); err != nil {
			return nil, err
		}
	}
	return set, nil
}
