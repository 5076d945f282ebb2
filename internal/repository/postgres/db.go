package postgres

import (
	"context"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const schema = `
	CREATE TABLE IF NOT EXISTS local_storage (
		storage_key   TEXT PRIMARY KEY,
		storage_value TEXT NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

func New(dsn string) (*sqlx.DB, error) {
	return sqlx.Connect("pgx", dsn)
}

// EnsureSchema creates the storage table when it does not exist.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
