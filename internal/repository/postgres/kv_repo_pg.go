package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/NoirBrew_Web/internal/repository/ports"
)

const upsertQuery = `
	INSERT INTO local_storage (storage_key, storage_value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (storage_key) DO UPDATE
	SET storage_value = EXCLUDED.storage_value,
	    updated_at = EXCLUDED.updated_at
`

type KeyValueRepository struct {
	db *sqlx.DB
}

func NewKeyValueRepo(db *sqlx.DB) *KeyValueRepository {
	return &KeyValueRepository{db: db}
}

func (r *KeyValueRepository) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `
		SELECT storage_value
		FROM local_storage
		WHERE storage_key = $1
	`
	var value string
	if err := r.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *KeyValueRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, upsertQuery, key, value)
	return err
}

// SetMany writes all entries in a single transaction.
func (r *KeyValueRepository) SetMany(ctx context.Context, entries []ports.KeyValue) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, upsertQuery, e.Key, e.Value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("write %s: %w", e.Key, err)
		}
	}
	return tx.Commit()
}

var (
	_ ports.KeyValueStore = (*KeyValueRepository)(nil)
	_ ports.BatchWriter   = (*KeyValueRepository)(nil)
)
