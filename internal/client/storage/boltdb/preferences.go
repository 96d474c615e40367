package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/sportconnect/internal/client/storage"
)

// GetPreference returns the stored value for key
func (s *Storage) GetPreference(ctx context.Context, key string) (string, error) {
	var value string

	err := s.view(ctx, func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPreferences)
		if bucket == nil {
			return fmt.Errorf("preferences bucket not found")
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrPreferenceNotFound
		}
		value = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}

	return value, nil
}

// SavePreference stores value under key
func (s *Storage) SavePreference(ctx context.Context, key, value string) error {
	return s.update(ctx, func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPreferences)
		if bucket == nil {
			return fmt.Errorf("preferences bucket not found")
		}

		if err := bucket.Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("failed to save preference %s: %w", key, err)
		}
		return nil
	})
}
