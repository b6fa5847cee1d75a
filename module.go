// Package wikirego wires the wiki editing core: clipboard paste handling,
// the markdown dialog, table commands and the documents store.
package wikirego

import (
	"context"
	"fmt"
	"time"

	"github.com/dannyswat/wikirego/internal/adapters/storage"
	"github.com/dannyswat/wikirego/internal/commands"
	pastecmd "github.com/dannyswat/wikirego/internal/commands/paste"
	tablescmd "github.com/dannyswat/wikirego/internal/commands/tables"
	"github.com/dannyswat/wikirego/internal/documents"
	"github.com/dannyswat/wikirego/internal/editor"
	"github.com/dannyswat/wikirego/internal/logging"
	"github.com/dannyswat/wikirego/internal/runtimeconfig"
	"github.com/dannyswat/wikirego/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

type (
	// DocumentService exports the documents service.
	DocumentService = documents.Service
	// DocumentRecord exports the persisted document model.
	DocumentRecord = documents.DocumentRecord
	// Session exports the editing session type.
	Session = editor.Session
	// CommandRegistry receives command handlers during New.
	CommandRegistry interface {
		RegisterCommand(handler any) error
	}
)

// Subscription is returned by the go-command dispatcher for each handler.
type Subscription interface {
	Unsubscribe()
}

// Module is the top level façade.
type Module struct {
	cfg       Config
	provider  interfaces.LoggerProvider
	logger    interfaces.Logger
	db        *bun.DB
	ownsDB    bool
	repo      documents.Repository
	documents *documents.Service
	tables    *tablescmd.HandlerSet
	paste     *pastecmd.HandlerSet
	subs      []Subscription
}

// Option overrides a dependency New would otherwise build from Config.
type Option func(*moduleOptions)

type moduleOptions struct {
	provider interfaces.LoggerProvider
	repo     documents.Repository
	db       *bun.DB
	registry CommandRegistry
}

// WithLoggerProvider replaces the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *moduleOptions) {
		o.provider = provider
	}
}

// WithRepository replaces the repository built from Config.Storage.
func WithRepository(repo documents.Repository) Option {
	return func(o *moduleOptions) {
		o.repo = repo
	}
}

// WithDB uses db for sql storage instead of opening Config.Storage.DSN. The
// caller keeps ownership of db.
func WithDB(db *bun.DB) Option {
	return func(o *moduleOptions) {
		o.db = db
	}
}

// WithCommandRegistry registers every command handler with registry.
func WithCommandRegistry(registry CommandRegistry) Option {
	return func(o *moduleOptions) {
		o.registry = registry
	}
}

// New validates cfg and builds the module.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := moduleOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	m := &Module{cfg: cfg, provider: options.provider}
	if m.provider == nil {
		provider, err := newLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("wikirego: logging: %w", err)
		}
		m.provider = provider
	}
	m.logger = logging.ModuleLogger(m.provider, "wikirego")

	if err := m.initRepository(ctx, options); err != nil {
		return nil, err
	}

	dialog := interfaces.ParseOptions{
		Extensions:     cfg.Markdown.Extensions,
		HardWraps:      cfg.Markdown.HardWraps,
		HighlightStyle: cfg.Markdown.HighlightStyle,
	}
	serviceOpts := []documents.Option{
		documents.WithLogger(logging.DocumentsLogger(m.provider)),
		documents.WithSessionLogger(logging.EditorLogger(m.provider)),
		documents.WithSessionOptions(
			editor.WithMarkdownPaste(cfg.Editor.MarkdownPaste),
			editor.WithPreview(cfg.Editor.Preview),
			editor.WithDialogOptions(dialog),
		),
	}
	if !cfg.Sanitizer.PersistencePolicy {
		serviceOpts = append(serviceOpts, documents.WithPersistencePolicy(nil))
	}
	m.documents = documents.NewService(m.repo, serviceOpts...)

	if err := m.initCommands(options.registry); err != nil {
		_ = m.Close()
		return nil, err
	}

	m.logger.Info("wikirego module ready", "storage", cfg.Storage.Provider, "cache", cfg.Cache.Enabled)
	return m, nil
}

func (m *Module) initRepository(ctx context.Context, options moduleOptions) error {
	if options.repo != nil {
		m.repo = options.repo
		return nil
	}
	if options.db == nil && runtimeconfig.NormalizeProvider(m.cfg.Storage.Provider) == "memory" {
		m.repo = documents.NewMemoryRepository()
		return nil
	}

	db := options.db
	if db == nil {
		opened, err := storage.Open(m.cfg.Storage)
		if err != nil {
			return err
		}
		db = opened
		m.ownsDB = true
	}
	m.db = db
	if err := storage.EnsureSchema(ctx, db); err != nil {
		_ = m.Close()
		return err
	}

	if !m.cfg.Cache.Enabled {
		m.repo = documents.NewBunRepository(db)
		return nil
	}
	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = m.cfg.Cache.DefaultTTL
	cacheSvc, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		_ = m.Close()
		return fmt.Errorf("wikirego: cache: %w", err)
	}
	m.repo = documents.NewBunRepositoryWithCache(db, cacheSvc, repocache.NewDefaultKeySerializer())
	return nil
}

func (m *Module) initCommands(registry CommandRegistry) error {
	var reg tablescmd.CommandRegistry
	if registry != nil {
		reg = registry
	}
	tables, err := tablescmd.RegisterTableCommands(reg, m.documents, m.provider)
	if err != nil {
		return err
	}

	timeout := m.cfg.Commands.Timeout
	paste, err := pastecmd.RegisterPasteCommands(reg, m.documents, m.provider,
		pastecmd.FeatureGates{MarkdownDialogEnabled: m.cfg.Editor.MarkdownPaste},
		pastecmd.WithClipboardHandlerOptions(commandsTimeout[pastecmd.ClipboardCommand](timeout)...),
		pastecmd.WithMarkdownHandlerOptions(commandsTimeout[pastecmd.MarkdownCommand](timeout)...),
	)
	if err != nil {
		return err
	}
	m.tables = tables
	m.paste = paste
	return nil
}

// Documents returns the documents service.
func (m *Module) Documents() *DocumentService {
	return m.documents
}

// Repository returns the repository backing the documents service.
func (m *Module) Repository() documents.Repository {
	return m.repo
}

// TableCommands returns the registered table command handlers.
func (m *Module) TableCommands() *tablescmd.HandlerSet {
	return m.tables
}

// PasteCommands returns the registered paste command handlers.
func (m *Module) PasteCommands() *pastecmd.HandlerSet {
	return m.paste
}

// SubscribeDispatcher subscribes every handler to the go-command dispatcher.
// Close removes the subscriptions.
func (m *Module) SubscribeDispatcher(maxRetries int) {
	retries := runner.WithMaxRetries(maxRetries)
	m.subs = append(m.subs,
		dispatcher.SubscribeCommand(m.tables.Apply, retries),
		dispatcher.SubscribeCommand(m.tables.InsertRowAbove, retries),
		dispatcher.SubscribeCommand(m.tables.InsertRowBelow, retries),
		dispatcher.SubscribeCommand(m.tables.InsertColumnBefore, retries),
		dispatcher.SubscribeCommand(m.tables.InsertColumnAfter, retries),
		dispatcher.SubscribeCommand(m.tables.DeleteRow, retries),
		dispatcher.SubscribeCommand(m.tables.DeleteColumn, retries),
		dispatcher.SubscribeCommand(m.tables.DeleteTable, retries),
		dispatcher.SubscribeCommand(m.tables.ToggleHeaderRow, retries),
		dispatcher.SubscribeCommand(m.tables.ToggleHeaderColumn, retries),
		dispatcher.SubscribeCommand(m.paste.Clipboard, retries),
		dispatcher.SubscribeCommand(m.paste.Markdown, retries),
	)
}

// Close unsubscribes dispatcher handlers and closes a database New opened.
func (m *Module) Close() error {
	for _, sub := range m.subs {
		sub.Unsubscribe()
	}
	m.subs = nil
	if m.db == nil || !m.ownsDB {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

func commandsTimeout[T command.Message](timeout time.Duration) []commands.HandlerOption[T] {
	if timeout <= 0 {
		return nil
	}
	return []commands.HandlerOption[T]{commands.WithTimeout[T](timeout)}
}
