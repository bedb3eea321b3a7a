// Package settings is a small key/value store kept in the settings table,
// next to but outside the record collections.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/guardian/internal/dbx"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// SQLiteRepository keeps settings in the settings table. Every call goes
// through a dbx.Runner, so the store's deadlines and error mapping apply.
type SQLiteRepository struct {
	db dbx.Runner
}

func NewSQLiteRepository(db dbx.Runner) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns (nil, nil) when the key is absent.
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.Run(ctx, fmt.Sprintf("failed to get setting[%s]", key), func(ctx context.Context, q dbx.DBTX) error {
		err := q.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			value = nil
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.db.Run(ctx, fmt.Sprintf("failed to set setting[%s]", key), func(ctx context.Context, q dbx.DBTX) error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value)
		return err
	})
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	return r.db.Run(ctx, fmt.Sprintf("failed to delete setting[%s]", key), func(ctx context.Context, q dbx.DBTX) error {
		_, err := q.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
		return err
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	return r.db.Run(ctx, "failed to clear settings", func(ctx context.Context, q dbx.DBTX) error {
		_, err := q.ExecContext(ctx, `DELETE FROM settings`)
		return err
	})
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string][]byte, error) {
	result := make(map[string][]byte)
	err := r.db.Run(ctx, "failed to list settings", func(ctx context.Context, q dbx.DBTX) error {
		rows, err := q.QueryContext(ctx, `SELECT key, value FROM settings`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var key string
			var value []byte
			if err := rows.Scan(&key, &value); err != nil {
				return fmt.Errorf("scan settings row: %w", err)
			}
			result[key] = value
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
