package documents

import (
	"context"
	"errors"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrDocumentNotFound is returned when no record matches the lookup key.
var ErrDocumentNotFound = errors.New("documents: document not found")

// ErrSlugRequired is returned when a record or page import has no usable slug.
var ErrSlugRequired = errors.New("documents: slug required")

// Repository persists document records and notifies subscribers of changes.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*DocumentRecord, error)
	GetBySlug(ctx context.Context, slug string) (*DocumentRecord, error)
	List(ctx context.Context) ([]*DocumentRecord, error)
	Save(ctx context.Context, record *DocumentRecord) (*DocumentRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// NewDocumentRepository creates the go-repository-bun store keyed by slug.
func NewDocumentRepository(db *bun.DB) repository.Repository[*DocumentRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*DocumentRecord]{
		NewRecord:          func() *DocumentRecord { return &DocumentRecord{} },
		GetID:              func(record *DocumentRecord) uuid.UUID { return record.ID },
		SetID:              func(record *DocumentRecord, id uuid.UUID) { record.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(record *DocumentRecord) string { return record.Slug },
	})
}
