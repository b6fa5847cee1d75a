package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dannyswat/wikirego/internal/document"
	"github.com/dannyswat/wikirego/internal/dom"
	"github.com/dannyswat/wikirego/internal/editor"
	"github.com/dannyswat/wikirego/internal/logging"
	"github.com/dannyswat/wikirego/internal/markdown"
	"github.com/dannyswat/wikirego/internal/sanitize"
	"github.com/dannyswat/wikirego/pkg/interfaces"
	"github.com/goliatone/go-slug"
)

// ErrSessionNotOpen is returned by Save when no session is open for the slug.
var ErrSessionNotOpen = errors.New("documents: no open session for slug")

// Service opens stored documents as editing sessions and writes them back.
type Service struct {
	repo          Repository
	logger        interfaces.Logger
	sessionLogger interfaces.Logger
	normalizer    slug.Normalizer
	converter     interfaces.MarkdownConverter
	sanitizer     interfaces.HTMLSanitizer
	persistence   *sanitize.Policy
	importer      *dom.Importer
	sessionOpts   []editor.Option

	mu       sync.Mutex
	sessions map[string]*editor.Session
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionLogger sets the logger handed to opened sessions.
func WithSessionLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.sessionLogger = logger
		}
	}
}

// WithPersistencePolicy replaces the policy applied to imported pages. A nil
// policy disables it.
func WithPersistencePolicy(policy *sanitize.Policy) Option {
	return func(s *Service) {
		s.persistence = policy
	}
}

// WithSessionOptions are applied to every session the service opens.
func WithSessionOptions(opts ...editor.Option) Option {
	return func(s *Service) {
		s.sessionOpts = append(s.sessionOpts, opts...)
	}
}

func WithSlugNormalizer(normalizer slug.Normalizer) Option {
	return func(s *Service) {
		if normalizer != nil {
			s.normalizer = normalizer
		}
	}
}

func WithConverter(converter interfaces.MarkdownConverter) Option {
	return func(s *Service) {
		if converter != nil {
			s.converter = converter
		}
	}
}

func WithSanitizer(sanitizer interfaces.HTMLSanitizer) Option {
	return func(s *Service) {
		if sanitizer != nil {
			s.sanitizer = sanitizer
		}
	}
}

func WithImporter(importer *dom.Importer) Option {
	return func(s *Service) {
		if importer != nil {
			s.importer = importer
		}
	}
}

// NewService builds a document service over repo.
func NewService(repo Repository, opts ...Option) *Service {
	svc := &Service{
		repo:          repo,
		logger:        logging.DocumentsLogger(nil),
		sessionLogger: logging.EditorLogger(nil),
		normalizer:    slug.Default(),
		converter:     markdown.Converter{},
		sanitizer:     sanitize.Sanitizer{},
		persistence:   sanitize.NewPersistencePolicy(),
		importer:      dom.DefaultImporter(),
		sessions:      map[string]*editor.Session{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Session returns the open session for slug, opening it on first use.
func (s *Service) Session(ctx context.Context, slugValue string) (*editor.Session, error) {
	return s.Open(ctx, slugValue)
}

// Open loads the document stored under slug into an editing session. Unknown
// slugs open an empty document that is created on first Save.
func (s *Service) Open(ctx context.Context, slugValue string) (*editor.Session, error) {
	key, err := s.normalize(slugValue)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[key]; ok {
		return session, nil
	}

	doc := document.New()
	id := ""
	record, err := s.repo.GetBySlug(ctx, key)
	switch {
	case err == nil:
		doc, err = document.Unmarshal([]byte(record.Body))
		if err != nil {
			return nil, fmt.Errorf("decode document %q: %w", key, err)
		}
		id = record.ID.String()
	case errors.Is(err, ErrDocumentNotFound):
	default:
		return nil, err
	}

	opts := append([]editor.Option{}, s.sessionOpts...)
	opts = append(opts,
		editor.WithLogger(logging.WithDocumentContext(s.sessionLogger, id, key)),
		editor.WithDocument(doc),
	)
	session := editor.NewSession(opts...)
	s.sessions[key] = session
	logging.WithDocumentContext(s.logger, id, key).Debug("document session opened", "existing", id != "")
	return session, nil
}

// Save persists session under slug. A nil session saves the one Open cached
// for the slug. Title and summary of an existing record are kept; new records
// take their title from the first heading.
func (s *Service) Save(ctx context.Context, slugValue string, session *editor.Session) (*DocumentRecord, error) {
	key, err := s.normalize(slugValue)
	if err != nil {
		return nil, err
	}

	if session == nil {
		s.mu.Lock()
		session = s.sessions[key]
		s.mu.Unlock()
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotOpen, key)
	}

	snapshot := session.Snapshot()
	body, err := document.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode document %q: %w", key, err)
	}

	record, err := s.repo.GetBySlug(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, ErrDocumentNotFound):
		record = &DocumentRecord{Slug: key, Title: firstHeading(snapshot)}
	default:
		return nil, err
	}
	record.Body = string(body)

	saved, err := s.repo.Save(ctx, record)
	if err != nil {
		return nil, err
	}
	logging.WithDocumentContext(s.logger, saved.ID.String(), saved.Slug).Info("document saved")
	return saved, nil
}

// Close drops the cached session for slug without saving it.
func (s *Service) Close(slugValue string) {
	key, err := s.normalize(slugValue)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.sessions, key)
	s.mu.Unlock()
}

// Delete removes the stored document and any open session for it.
func (s *Service) Delete(ctx context.Context, slugValue string) error {
	key, err := s.normalize(slugValue)
	if err != nil {
		return err
	}
	record, err := s.repo.GetBySlug(ctx, key)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, record.ID); err != nil {
		return err
	}
	s.Close(key)
	return nil
}

// List returns every stored record ordered by slug.
func (s *Service) List(ctx context.Context) ([]*DocumentRecord, error) {
	return s.repo.List(ctx)
}

// ImportPage stores a Markdown page with optional front matter. The slug comes
// from the front matter slug, then its title. An open session for the slug is
// dropped so the next Open sees the imported content.
func (s *Service) ImportPage(ctx context.Context, source []byte) (*DocumentRecord, error) {
	meta, body, err := markdown.ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	candidate := meta.Slug
	if strings.TrimSpace(candidate) == "" {
		candidate = meta.Title
	}
	key, err := s.normalize(candidate)
	if err != nil {
		return nil, err
	}

	html := s.converter.Convert(string(body))
	if s.persistence != nil {
		html = s.persistence.Sanitize(html)
	}
	// Link and image rewriting runs last so the stored rel is exactly ours.
	html = s.sanitizer.Sanitize(html)
	blocks, err := s.importer.Import(html)
	if err != nil {
		return nil, fmt.Errorf("import page %q: %w", key, err)
	}
	doc := document.NewWithBlocks(blocks...)
	encoded, err := document.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode page %q: %w", key, err)
	}

	record := &DocumentRecord{Slug: key}
	if existing, err := s.repo.GetBySlug(ctx, key); err == nil {
		record = existing
	} else if !errors.Is(err, ErrDocumentNotFound) {
		return nil, err
	}
	record.Title = meta.Title
	if record.Title == "" {
		record.Title = firstHeading(doc)
	}
	record.Summary = meta.Summary
	record.Tags = append([]string(nil), meta.Tags...)
	record.Body = string(encoded)

	saved, err := s.repo.Save(ctx, record)
	if err != nil {
		return nil, err
	}
	s.Close(key)
	logging.WithDocumentContext(s.logger, saved.ID.String(), saved.Slug).Info("page imported", "blocks", len(blocks))
	return saved, nil
}

// Watch drops cached sessions whose records are deleted through the
// repository. It returns when ctx is done.
func (s *Service) Watch(ctx context.Context) error {
	events, err := s.repo.Subscribe(ctx)
	if err != nil {
		return err
	}
	for event := range events {
		if event.Type == ChangeDeleted && event.Record != nil {
			s.Close(event.Record.Slug)
		}
	}
	return ctx.Err()
}

func (s *Service) normalize(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", ErrSlugRequired
	}
	normalized, err := s.normalizer.Normalize(value)
	if err != nil {
		return "", fmt.Errorf("normalize slug %q: %w", value, err)
	}
	if normalized == "" {
		return "", ErrSlugRequired
	}
	return normalized, nil
}

func firstHeading(d *document.Document) string {
	for _, block := range d.Blocks() {
		if block.Type() == document.TypeHeading {
			return strings.TrimSpace(document.TextContent(block))
		}
	}
	return ""
}
