package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/davicafu/agrofarm/internal/shared/application"
	"github.com/davicafu/agrofarm/internal/shared/domain"
)

// ErrUnitOfWorkClosed se devuelve al reutilizar una unidad ya confirmada.
var ErrUnitOfWorkClosed = errors.New("unit of work already committed")

// Execer es lo que un RowWriter necesita de la transacción.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// RowWriter persiste un tipo de agregado. Update debe filtrar por la versión
// esperada para que 0 filas afectadas signifique conflicto.
type RowWriter interface {
	Insert(ctx context.Context, tx Execer, d Dialect, agg domain.Aggregate) error
	Update(ctx context.Context, tx Execer, d Dialect, agg domain.Aggregate) (sql.Result, error)
	// Conflict es la violación que se reporta ante una escritura concurrente.
	Conflict() domain.Violation
}

// Store abre unidades de trabajo sobre una base SQL.
type Store struct {
	db      *sql.DB
	dialect Dialect
	writers map[string]RowWriter
	log     *zap.Logger
}

func NewStore(db *sql.DB, dialect Dialect, writers map[string]RowWriter, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, dialect: dialect, writers: writers, log: log}
}

func (s *Store) DB() *sql.DB      { return s.db }
func (s *Store) Dialect() Dialect { return s.dialect }

// NewUnitOfWork cumple application.UnitOfWorkFactory.
func (s *Store) NewUnitOfWork() application.UnitOfWork {
	return &unitOfWork{store: s}
}

// unitOfWork acumula en memoria y solo toca la base en Commit.
type unitOfWork struct {
	store   *Store
	tracked []domain.Aggregate
	outbox  []domain.OutboxEvent
	closed  bool
}

var _ application.UnitOfWork = (*unitOfWork)(nil)

func (u *unitOfWork) Track(_ context.Context, agg domain.Aggregate) error {
	if u.closed {
		return ErrUnitOfWorkClosed
	}
	if _, ok := u.store.writers[agg.Kind()]; !ok {
		return fmt.Errorf("no row writer registered for %q", agg.Kind())
	}
	u.tracked = append(u.tracked, agg)
	return nil
}

func (u *unitOfWork) Enqueue(_ context.Context, evt domain.IntegrationEvent) error {
	if u.closed {
		return ErrUnitOfWorkClosed
	}
	row, err := domain.NewOutboxEvent(evt)
	if err != nil {
		return err
	}
	u.outbox = append(u.outbox, row)
	return nil
}

// Commit escribe agregados y outbox en una sola transacción.
func (u *unitOfWork) Commit(ctx context.Context) (err error) {
	if u.closed {
		return ErrUnitOfWorkClosed
	}
	u.closed = true

	tx, err := u.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				u.store.log.Warn("⚠️ Rollback failed", zap.Error(rbErr))
			}
		}
	}()

	d := u.store.dialect
	for _, agg := range u.tracked {
		if err = u.write(ctx, tx, d, agg); err != nil {
			return err
		}
	}
	for _, evt := range u.outbox {
		if err = insertOutbox(ctx, tx, d, evt); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (u *unitOfWork) write(ctx context.Context, tx *sql.Tx, d Dialect, agg domain.Aggregate) error {
	w := u.store.writers[agg.Kind()]

	if agg.Version() == 0 {
		if err := w.Insert(ctx, tx, d, agg); err != nil {
			if d.IsUniqueViolation(err) {
				return domain.Conflict(w.Conflict(), err)
			}
			return fmt.Errorf("insert %s %s: %w", agg.Kind(), agg.ID(), err)
		}
		return nil
	}

	res, err := w.Update(ctx, tx, d, agg)
	if err != nil {
		if d.IsUniqueViolation(err) {
			return domain.Conflict(w.Conflict(), err)
		}
		return fmt.Errorf("update %s %s: %w", agg.Kind(), agg.ID(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected %s %s: %w", agg.Kind(), agg.ID(), err)
	}
	if n == 0 {
		return domain.Conflict(w.Conflict(),
			fmt.Errorf("%s %s: expected version %d", agg.Kind(), agg.ID(), agg.Version()))
	}
	return nil
}

func insertOutbox(ctx context.Context, tx Execer, d Dialect, evt domain.OutboxEvent) error {
	_, err := tx.ExecContext(ctx, d.Rebind(
		`INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at, status, retry_count, last_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, '')`),
		evt.ID.String(), evt.AggregateType, evt.AggregateID, evt.EventType, string(evt.Payload), evt.CreatedAt, string(domain.OutboxPending),
	)
	if err != nil {
		return fmt.Errorf("insert outbox event %s: %w", evt.ID, err)
	}
	return nil
}
