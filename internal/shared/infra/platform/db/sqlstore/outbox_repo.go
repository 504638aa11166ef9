package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/davicafu/agrofarm/internal/shared/domain"
)

// OutboxRepo implementa domain.OutboxRepository sobre SQLite o Postgres.
type OutboxRepo struct {
	db      *sql.DB
	dialect Dialect
}

func NewOutboxRepo(db *sql.DB, dialect Dialect) *OutboxRepo {
	return &OutboxRepo{db: db, dialect: dialect}
}

var _ domain.OutboxRepository = (*OutboxRepo)(nil)

// FetchPendingOutbox devuelve los pendientes en orden de creación.
func (r *OutboxRepo) FetchPendingOutbox(ctx context.Context, limit int) ([]domain.OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(
		`SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at, status, retry_count, last_error
		 FROM outbox
		 WHERE status = ?
		 ORDER BY created_at
		 LIMIT ?`), string(domain.OutboxPending), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.OutboxEvent
	for rows.Next() {
		var evt domain.OutboxEvent
		var payload []byte
		var status string
		if err := rows.Scan(&evt.ID, &evt.AggregateType, &evt.AggregateID, &evt.EventType, &payload, &evt.CreatedAt, &status, &evt.RetryCount, &evt.LastError); err != nil {
			return nil, err
		}
		evt.Payload = append([]byte(nil), payload...)
		evt.Status = domain.OutboxStatus(status)
		events = append(events, evt)
	}
	return events, rows.Err()
}

func (r *OutboxRepo) MarkOutboxDispatched(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`UPDATE outbox SET status = ?, last_error = '' WHERE id = ?`),
		string(domain.OutboxDispatched), id.String(),
	)
	return checkOutboxUpdate(res, err, id)
}

// MarkOutboxFailed suma un reintento. Al llegar a maxRetries la fila pasa a failed
// y el relayer deja de verla.
func (r *OutboxRepo) MarkOutboxFailed(ctx context.Context, id uuid.UUID, reason string, maxRetries int) error {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(
		`UPDATE outbox
		 SET retry_count = retry_count + 1,
		     last_error = ?,
		     status = CASE WHEN retry_count + 1 >= ? THEN ? ELSE ? END
		 WHERE id = ?`),
		reason, maxRetries, string(domain.OutboxFailed), string(domain.OutboxPending), id.String(),
	)
	return checkOutboxUpdate(res, err, id)
}

// CountByStatus alimenta el endpoint de salud.
func (r *OutboxRepo) CountByStatus(ctx context.Context) (map[domain.OutboxStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM outbox GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[domain.OutboxStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[domain.OutboxStatus(status)] = n
	}
	return counts, rows.Err()
}

func checkOutboxUpdate(res sql.Result, err error, id uuid.UUID) error {
	if err != nil {
		return fmt.Errorf("update outbox event %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for outbox event %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("outbox event %s: %w", id, domain.ErrRecordNotFound)
	}
	return nil
}
