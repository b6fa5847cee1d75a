package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository stores documents through go-repository-bun with optional
// caching.
type BunRepository struct {
	repo   repository.Repository[*DocumentRecord]
	events *broadcaster
	now    func() time.Time
}

// NewBunRepository creates a document repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a document repository that reads through
// cacheService when both cache arguments are set.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewDocumentRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base, events: newBroadcaster(), now: time.Now}
}

func (r *BunRepository) Get(ctx context.Context, id uuid.UUID) (*DocumentRecord, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, slug string) (*DocumentRecord, error) {
	slug = strings.TrimSpace(slug)
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	return record, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*DocumentRecord, error) {
	records, _, err := r.repo.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "list")
	}
	sortBySlug(records)
	return records, nil
}

func (r *BunRepository) Save(ctx context.Context, record *DocumentRecord) (*DocumentRecord, error) {
	prepared, err := prepareRecord(record)
	if err != nil {
		return nil, err
	}

	if owner, err := r.GetBySlug(ctx, prepared.Slug); err == nil && owner.ID != prepared.ID {
		return nil, ErrSlugConflict
	} else if err != nil && !errors.Is(err, ErrDocumentNotFound) {
		return nil, err
	}

	now := r.now()
	prepared.UpdatedAt = now

	existing, err := r.Get(ctx, prepared.ID)
	switch {
	case err == nil:
		prepared.CreatedAt = existing.CreatedAt
		saved, err := r.repo.Update(ctx, prepared)
		if err != nil {
			return nil, mapRepositoryError(err, prepared.Slug)
		}
		r.events.publish(ChangeUpdated, saved)
		return saved, nil
	case errors.Is(err, ErrDocumentNotFound):
		prepared.CreatedAt = now
		saved, err := r.repo.Create(ctx, prepared)
		if err != nil {
			return nil, mapRepositoryError(err, prepared.Slug)
		}
		r.events.publish(ChangeCreated, saved)
		return saved, nil
	default:
		return nil, err
	}
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, &DocumentRecord{ID: id}); err != nil {
		return mapRepositoryError(err, id.String())
	}
	r.events.publish(ChangeDeleted, existing)
	return nil
}

func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.events.subscribe(ctx), nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, key)
	}
	return fmt.Errorf("document repository error: %w", err)
}
