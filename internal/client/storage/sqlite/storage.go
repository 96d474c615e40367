// Package sqlite keeps the client's tokens and preferences in a SQLite file,
// selected with store_driver=sqlite instead of the default bbolt file.
//
// The schema (migrations/) is two key/value tables: tokens, keyed by token kind,
// and preferences, keyed by preference name. Both live in the same file so a
// logout never touches the theme.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/iudanet/sportconnect/internal/client/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Storage is the SQLite implementation of storage.Storage.
type Storage struct {
	db *sql.DB
}

var _ storage.Storage = (*Storage)(nil)

// New opens (creating if needed) the client database at dbPath and migrates it.
// ":memory:" gives a private in-memory database.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Одно соединение: клиент пишет редко, а :memory: иначе раздвоится
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Токены переживают падение процесса; WAL не нужен одному писателю
	pragmas := []string{
		"PRAGMA synchronous = FULL;",
		"PRAGMA busy_timeout = 5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// migrate применяет миграции через goose.Provider, без глобального состояния goose
func migrate(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	for _, r := range results {
		slog.Debug("applied client schema migration", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}
