package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/sportconnect/internal/client/storage"
)

// GetToken returns the stored token of the given kind
func (s *Storage) GetToken(ctx context.Context, kind storage.TokenKind) (string, error) {
	if !storage.ValidKind(kind) {
		return "", fmt.Errorf("%w: %q", storage.ErrUnknownTokenKind, kind)
	}

	var token string
	err := s.view(ctx, func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTokens)
		if bucket == nil {
			return fmt.Errorf("tokens bucket not found")
		}

		data := bucket.Get([]byte(kind))
		if data == nil {
			return storage.ErrTokenNotFound
		}

		// data валиден только внутри транзакции, поэтому копируем
		token = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// SaveTokens stores the non-empty fields of creds in a single transaction
func (s *Storage) SaveTokens(ctx context.Context, creds storage.Credentials) error {
	return s.update(ctx, func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTokens)
		if bucket == nil {
			return fmt.Errorf("tokens bucket not found")
		}

		for _, kind := range storage.Kinds {
			value := creds.Get(kind)
			if value == "" {
				continue
			}
			if err := bucket.Put([]byte(kind), []byte(value)); err != nil {
				return fmt.Errorf("failed to save %s: %w", kind, err)
			}
		}

		return nil
	})
}

// DeleteTokens removes both tokens (logout)
func (s *Storage) DeleteTokens(ctx context.Context) error {
	return s.update(ctx, func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketTokens)
		if bucket == nil {
			return fmt.Errorf("tokens bucket not found")
		}

		// Delete отсутствующего ключа в bbolt не является ошибкой
		for _, kind := range storage.Kinds {
			if err := bucket.Delete([]byte(kind)); err != nil {
				return fmt.Errorf("failed to delete %s: %w", kind, err)
			}
		}

		return nil
	})
}
