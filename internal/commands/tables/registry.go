package tablescmd

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

// HandlerSet groups the table command handlers.
type HandlerSet struct {
	Apply              *Handler[ApplyCommand]
	InsertRowAbove     *Handler[InsertRowAboveCommand]
	InsertRowBelow     *Handler[InsertRowBelowCommand]
	InsertColumnBefore *Handler[InsertColumnBeforeCommand]
	InsertColumnAfter  *Handler[InsertColumnAfterCommand]
	DeleteRow          *Handler[DeleteRowCommand]
	DeleteColumn       *Handler[DeleteColumnCommand]
	DeleteTable        *Handler[DeleteTableCommand]
	ToggleHeaderRow    *Handler[ToggleHeaderRowCommand]
	ToggleHeaderColumn *Handler[ToggleHeaderColumnCommand]
}

// All lists the handlers in registration order.
func (s *HandlerSet) All() []any {
	return []any{
		s.Apply,
		s.InsertRowAbove, s.InsertRowBelow,
		s.InsertColumnBefore, s.InsertColumnAfter,
		s.DeleteRow, s.DeleteColumn, s.DeleteTable,
		s.ToggleHeaderRow, s.ToggleHeaderColumn,
	}
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	onResult ResultFunc
}

// WithResultFunc observes every table command outcome.
func WithResultFunc(fn ResultFunc) Option {
	return func(cfg *options) {
		cfg.onResult = fn
	}
}

// RegisterTableCommands builds every table handler and registers them with
// reg when reg is not nil.
func RegisterTableCommands(reg CommandRegistry, sessions commands.SessionSource, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if sessions == nil {
		return nil, errors.New("tables command registration: session source is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "tables")
	set := &HandlerSet{
		Apply:              NewHandler[ApplyCommand](sessions, logger, cfg.onResult),
		InsertRowAbove:     NewHandler[InsertRowAboveCommand](sessions, logger, cfg.onResult),
		InsertRowBelow:     NewHandler[InsertRowBelowCommand](sessions, logger, cfg.onResult),
		InsertColumnBefore: NewHandler[InsertColumnBeforeCommand](sessions, logger, cfg.onResult),
		InsertColumnAfter:  NewHandler[InsertColumnAfterCommand](sessions, logger, cfg.onResult),
		DeleteRow:          NewHandler[DeleteRowCommand](sessions, logger, cfg.onResult),
		DeleteColumn:       NewHandler[DeleteColumnCommand](sessions, logger, cfg.onResult),
		DeleteTable:        NewHandler[DeleteTableCommand](sessions, logger, cfg.onResult),
		ToggleHeaderRow:    NewHandler[ToggleHeaderRowCommand](sessions, logger, cfg.onResult),
		ToggleHeaderColumn: NewHandler[ToggleHeaderColumnCommand](sessions, logger, cfg.onResult),
	}

	if reg != nil {
		for _, handler := range set.All() {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}
