// Package editor owns a live document and applies every mutation to it as
// a serialized transaction: paste handling, the markdown dialog and table
// commands all run through Session.Update.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dannyswat/wikirego/internal/document"
	"github.com/dannyswat/wikirego/internal/dom"
	"github.com/dannyswat/wikirego/internal/logging"
	"github.com/dannyswat/wikirego/internal/markdown"
	"github.com/dannyswat/wikirego/internal/sanitize"
	"github.com/dannyswat/wikirego/pkg/interfaces"
)

// ErrTransactionPanicked wraps a panic raised inside an update function.
var ErrTransactionPanicked = errors.New("editor: transaction panicked")

// Session holds one document. Update is the only way to change it.
type Session struct {
	mu  sync.Mutex
	doc *document.Document

	detector  interfaces.MarkdownDetector
	converter interfaces.MarkdownConverter
	sanitizer interfaces.HTMLSanitizer
	parser    interfaces.MarkdownParser
	importer  *dom.Importer
	exporter  *markdown.Exporter

	dialogOptions  interfaces.ParseOptions
	markdownPaste  bool
	previewEnabled bool

	logger  interfaces.Logger
	onError func(error)
}

// Option configures a Session.
type Option func(*Session)

// WithDocument starts the session from d instead of an empty document.
func WithDocument(d *document.Document) Option {
	return func(s *Session) {
		if d != nil {
			s.doc = d
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithErrorHandler receives every error that discards a transaction.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Session) {
		s.onError = fn
	}
}

// WithDetector replaces the markdown detector used by paste handling.
func WithDetector(detector interfaces.MarkdownDetector) Option {
	return func(s *Session) {
		if detector != nil {
			s.detector = detector
		}
	}
}

// WithConverter replaces the paste converter.
func WithConverter(converter interfaces.MarkdownConverter) Option {
	return func(s *Session) {
		if converter != nil {
			s.converter = converter
		}
	}
}

// WithSanitizer replaces the HTML sanitizer applied before import.
func WithSanitizer(sanitizer interfaces.HTMLSanitizer) Option {
	return func(s *Session) {
		if sanitizer != nil {
			s.sanitizer = sanitizer
		}
	}
}

// WithParser replaces the markdown dialog renderer.
func WithParser(parser interfaces.MarkdownParser) Option {
	return func(s *Session) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithImporter replaces the HTML to node importer.
func WithImporter(importer *dom.Importer) Option {
	return func(s *Session) {
		if importer != nil {
			s.importer = importer
		}
	}
}

// WithDialogOptions overrides the renderer options of the markdown dialog.
func WithDialogOptions(opts interfaces.ParseOptions) Option {
	return func(s *Session) {
		s.dialogOptions = opts
	}
}

// WithMarkdownPaste toggles conversion of markdown-looking plain text on
// paste.
func WithMarkdownPaste(enabled bool) Option {
	return func(s *Session) {
		s.markdownPaste = enabled
	}
}

// WithPreview toggles the markdown dialog preview.
func WithPreview(enabled bool) Option {
	return func(s *Session) {
		s.previewEnabled = enabled
	}
}

// NewSession returns a session over an empty document.
func NewSession(opts ...Option) *Session {
	s := &Session{
		doc:            document.New(),
		detector:       markdown.Detector{},
		converter:      markdown.Converter{},
		sanitizer:      sanitize.Sanitizer{},
		importer:       dom.DefaultImporter(),
		exporter:       markdown.NewExporter(),
		dialogOptions:  markdown.DialogOptions(),
		markdownPaste:  true,
		previewEnabled: true,
		logger:         logging.EditorLogger(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.parser == nil {
		s.parser = markdown.NewGoldmarkParser(s.dialogOptions)
	}
	if s.onError == nil {
		s.onError = func(err error) {
			s.logger.Error("editor transaction discarded", "error", err)
		}
	}
	return s
}

// Update runs fn against a copy of the document and swaps the copy in when
// fn succeeds. Transactions never overlap. When fn fails or panics the copy
// is dropped, the error handler is called and the error is returned.
func (s *Session) Update(ctx context.Context, fn func(*document.Document) error) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.doc.Clone()
	if err := runTransaction(draft, fn); err != nil {
		s.onError(err)
		return err
	}
	s.doc = draft
	return nil
}

func runTransaction(d *document.Document, fn func(*document.Document) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTransactionPanicked, r)
		}
	}()
	return fn(d)
}

// Read calls fn with the committed document. fn must not modify it.
func (s *Session) Read(fn func(*document.Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.doc)
}

// Snapshot returns a copy of the committed document.
func (s *Session) Snapshot() *document.Document {
	var out *document.Document
	s.Read(func(d *document.Document) {
		out = d.Clone()
	})
	return out
}

// ExportHTML renders the committed document as HTML.
func (s *Session) ExportHTML() string {
	var out string
	s.Read(func(d *document.Document) {
		out = dom.ExportDocument(d)
	})
	return out
}

// ExportMarkdown renders the committed document as GFM Markdown.
func (s *Session) ExportMarkdown() (string, error) {
	return s.exporter.Export(s.ExportHTML())
}
