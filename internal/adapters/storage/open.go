// Package storage opens the SQL database that backs the documents store.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dannyswat/wikirego/internal/documents"
	"github.com/dannyswat/wikirego/internal/runtimeconfig"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// ErrNotSQLProvider is returned by Open for providers without a database.
var ErrNotSQLProvider = errors.New("storage: provider has no sql database")

// Open connects to the database selected by cfg. The connection is lazy;
// the first query surfaces DSN problems.
func Open(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	switch provider := runtimeconfig.NormalizeProvider(cfg.Provider); provider {
	case "sqlite":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case "postgres":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotSQLProvider, provider)
	}
}

// Models lists the tables the module owns.
func Models() []any {
	return []any{(*documents.DocumentRecord)(nil)}
}

// EnsureSchema creates missing tables inside one transaction.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range Models() {
			if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("storage: create table for %T: %w", model, err)
			}
		}
		return nil
	})
}
