package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/sportconnect/internal/client/storage"
)

// GetToken returns the stored token of the given kind
func (s *Storage) GetToken(ctx context.Context, kind storage.TokenKind) (string, error) {
	if !storage.ValidKind(kind) {
		return "", fmt.Errorf("%w: %q", storage.ErrUnknownTokenKind, kind)
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM tokens WHERE kind = ?`, string(kind),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", kind, err)
	}

	return value, nil
}

// SaveTokens stores the non-empty fields of creds in one transaction
func (s *Storage) SaveTokens(ctx context.Context, creds storage.Credentials) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().Unix()
	for _, kind := range storage.Kinds {
		value := creds.Get(kind)
		if value == "" {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tokens (kind, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(kind) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			string(kind), value, now,
		)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tokens: %w", err)
	}
	return nil
}

// DeleteTokens removes both tokens
func (s *Storage) DeleteTokens(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tokens`); err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}
