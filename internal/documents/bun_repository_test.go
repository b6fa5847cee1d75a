package documents_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dannyswat/wikirego/internal/documents"
	"github.com/dannyswat/wikirego/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func newBunDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	if _, err := db.NewCreateTable().Model((*documents.DocumentRecord)(nil)).IfNotExists().Exec(context.Background()); err != nil {
		t.Fatalf("create documents table: %v", err)
	}
	return db
}

func TestBunRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := documents.NewBunRepository(newBunDB(t))

	events, err := repo.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	saved, err := repo.Save(ctx, &documents.DocumentRecord{
		Slug:  "getting-started",
		Title: "Getting Started",
		Tags:  []string{"guide"},
		Body:  `{"root":{"type":"root","children":[]}}`,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if event := <-events; event.Type != documents.ChangeCreated {
		t.Fatalf("expected created event, got %s", event.Type)
	}

	fetched, err := repo.GetBySlug(ctx, "getting-started")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if fetched.ID != saved.ID || fetched.Title != "Getting Started" {
		t.Fatalf("unexpected record %+v", fetched)
	}
	if len(fetched.Tags) != 1 || fetched.Tags[0] != "guide" {
		t.Fatalf("expected tags to round trip, got %v", fetched.Tags)
	}

	fetched.Title = "Start Here"
	if _, err := repo.Save(ctx, fetched); err != nil {
		t.Fatalf("update: %v", err)
	}
	if event := <-events; event.Type != documents.ChangeUpdated {
		t.Fatalf("expected updated event, got %s", event.Type)
	}
	byID, err := repo.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if byID.Title != "Start Here" {
		t.Fatalf("expected updated title, got %q", byID.Title)
	}

	if err := repo.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if event := <-events; event.Type != documents.ChangeDeleted {
		t.Fatalf("expected deleted event, got %s", event.Type)
	}
	if _, err := repo.Get(ctx, saved.ID); !errors.Is(err, documents.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestBunRepositoryWithCache(t *testing.T) {
	ctx := context.Background()

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheSvc, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	repo := documents.NewBunRepositoryWithCache(newBunDB(t), cacheSvc, repocache.NewDefaultKeySerializer())

	for _, slug := range []string{"beta", "alpha"} {
		if _, err := repo.Save(ctx, &documents.DocumentRecord{Slug: slug, Body: "{}"}); err != nil {
			t.Fatalf("save %s: %v", slug, err)
		}
	}

	for range 2 {
		record, err := repo.GetBySlug(ctx, "alpha")
		if err != nil {
			t.Fatalf("get by slug: %v", err)
		}
		if record.Slug != "alpha" {
			t.Fatalf("unexpected slug %q", record.Slug)
		}
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 || records[0].Slug != "alpha" || records[1].Slug != "beta" {
		t.Fatalf("expected sorted records, got %d", len(records))
	}
}
