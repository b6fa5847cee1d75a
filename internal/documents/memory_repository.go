package documents

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dannyswat/wikirego/internal/identity"
	"github.com/google/uuid"
)

// ErrSlugConflict is returned when a save would give two records the same slug.
var ErrSlugConflict = errors.New("documents: slug already in use")

// MemoryRepository keeps records in process. It backs tests and the CLI.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*DocumentRecord
	bySlug  map[string]uuid.UUID
	events  *broadcaster
	now     func() time.Time
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: map[uuid.UUID]*DocumentRecord{},
		bySlug:  map[string]uuid.UUID{},
		events:  newBroadcaster(),
		now:     time.Now,
	}
}

func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (*DocumentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return record.clone(), nil
}

func (r *MemoryRepository) GetBySlug(_ context.Context, slug string) (*DocumentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySlug[strings.TrimSpace(slug)]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return r.records[id].clone(), nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*DocumentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*DocumentRecord, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record.clone())
	}
	sortBySlug(out)
	return out, nil
}

func (r *MemoryRepository) Save(_ context.Context, record *DocumentRecord) (*DocumentRecord, error) {
	prepared, err := prepareRecord(record)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if owner, taken := r.bySlug[prepared.Slug]; taken && owner != prepared.ID {
		r.mu.Unlock()
		return nil, ErrSlugConflict
	}
	now := r.now()
	kind := ChangeCreated
	if existing, ok := r.records[prepared.ID]; ok {
		kind = ChangeUpdated
		prepared.CreatedAt = existing.CreatedAt
		if existing.Slug != prepared.Slug {
			delete(r.bySlug, existing.Slug)
		}
	} else {
		prepared.CreatedAt = now
	}
	prepared.UpdatedAt = now
	r.records[prepared.ID] = prepared
	r.bySlug[prepared.Slug] = prepared.ID
	r.mu.Unlock()

	r.events.publish(kind, prepared)
	return prepared.clone(), nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	record, ok := r.records[id]
	if !ok {
		r.mu.Unlock()
		return ErrDocumentNotFound
	}
	delete(r.records, id)
	delete(r.bySlug, record.Slug)
	r.mu.Unlock()

	r.events.publish(ChangeDeleted, record)
	return nil
}

func (r *MemoryRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.events.subscribe(ctx), nil
}

// prepareRecord validates record and returns a copy with its id filled in.
func prepareRecord(record *DocumentRecord) (*DocumentRecord, error) {
	if record == nil {
		return nil, ErrSlugRequired
	}
	prepared := record.clone()
	prepared.Slug = strings.TrimSpace(prepared.Slug)
	if prepared.Slug == "" {
		return nil, ErrSlugRequired
	}
	if prepared.ID == uuid.Nil {
		prepared.ID = identity.DocumentUUID(prepared.Slug)
	}
	return prepared, nil
}

func sortBySlug(records []*DocumentRecord) {
	slices.SortFunc(records, func(a, b *DocumentRecord) int {
		return strings.Compare(a.Slug, b.Slug)
	})
}
