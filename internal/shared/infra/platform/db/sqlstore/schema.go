package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
)

// InitOutbox crea la tabla outbox y su índice de pendientes.
func InitOutbox(ctx context.Context, db *sql.DB, d Dialect) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS outbox (
			id TEXT PRIMARY KEY,
			aggregate_type TEXT NOT NULL,
			aggregate_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			payload %s NOT NULL,
			created_at %s NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			retry_count INTEGER NOT NULL DEFAULT 0,
			last_error TEXT NOT NULL DEFAULT ''
		)`, d.JSONType, d.TimestampType),
		`CREATE INDEX IF NOT EXISTS idx_outbox_status_created ON outbox (status, created_at)`,
	}
	return Exec(ctx, db, stmts...)
}

// Exec ejecuta sentencias DDL en orden y se para en el primer error.
func Exec(ctx context.Context, db *sql.DB, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema: %w", err)
		}
	}
	return nil
}
