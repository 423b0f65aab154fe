package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
)

// StorageRepository keeps string values under string keys in sqlite
type StorageRepository struct {
	db *sqlx.DB
}

// NewStorageRepository creates a new storage repository
func NewStorageRepository(db *sqlx.DB) *StorageRepository {
	return &StorageRepository{db: db}
}

// GetValue retrieves the value stored under key, found is false for unknown keys
func (r *StorageRepository) GetValue(ctx context.Context, key string) (value string, found bool, err error) {
	err = r.db.GetContext(ctx, &value, "SELECT value FROM storage WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get value: %w", err)
	}
	return value, true, nil
}

// SetValue stores value under key, replacing the previous one.
// Lock errors are retried with backoff.
func (r *StorageRepository) SetValue(ctx context.Context, key, value string) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	err := retrier.Do(ctx, func() error {
		query := `
			INSERT INTO storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`
		if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
			if isLockError(err) {
				return err // retry
			}
			return &criticalError{err: fmt.Errorf("set value: %w", err)}
		}
		return nil
	})

	var ce *criticalError
	if errors.As(err, &ce) {
		return ce.err
	}
	return err
}
