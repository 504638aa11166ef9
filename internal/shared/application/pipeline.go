package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/agrofarm/internal/shared/domain"
	"github.com/davicafu/agrofarm/pkg/logger"
)

// UnitOfWork agrupa las escrituras de un único comando. Agregado y outbox
// deben confirmarse en la misma transacción.
type UnitOfWork interface {
	Track(ctx context.Context, agg domain.Aggregate) error
	Enqueue(ctx context.Context, evt domain.IntegrationEvent) error
	Commit(ctx context.Context) error
}

// UnitOfWorkFactory crea una unidad de trabajo nueva por ejecución.
type UnitOfWorkFactory func() UnitOfWork

// Work es el resultado de Map: da acceso al agregado que se persistirá.
type Work interface {
	Target() domain.Aggregate
}

// Fresh envuelve un agregado recién creado.
type Fresh[A domain.Aggregate] struct {
	Root A
}

func (f Fresh[A]) Target() domain.Aggregate { return f.Root }

// EventMeta viaja con cada evento de integración.
type EventMeta struct {
	ActorID       uuid.UUID
	HandlerName   string
	CorrelationID string
}

// CommandHandler ejecuta siempre Map -> Validate -> Persist -> Publish -> Commit -> Respond.
type CommandHandler[C any, W Work, R any] struct {
	Name string

	// Map es puro: construye el agregado o prepara las entradas validadas.
	Map func(cmd C, actor domain.Actor) (W, error)
	// Validate es la única etapa que lee del repositorio.
	Validate func(ctx context.Context, work W, actor domain.Actor) error
	// PublishIntegrationEvents traduce los eventos pendientes; ver MapIntegrationEvents.
	PublishIntegrationEvents func(work W, meta EventMeta) ([]domain.IntegrationEvent, error)
	BuildResponse            func(work W) R

	log *zap.Logger
}

// WithLogger asigna el logger del handler.
func (h *CommandHandler[C, W, R]) WithLogger(log *zap.Logger) *CommandHandler[C, W, R] {
	h.log = log
	return h
}

func (h *CommandHandler[C, W, R]) logger(ctx context.Context, actor domain.Actor) *zap.Logger {
	base := h.log
	if base == nil {
		base = zap.NewNop()
	}
	return logger.WithRequestID(ctx, base).With(
		zap.String("handler", h.Name),
		zap.String("actor_id", actor.ID.String()),
	)
}

// Execute corre el pipeline completo sobre una unidad de trabajo propia.
func (h *CommandHandler[C, W, R]) Execute(ctx context.Context, uow UnitOfWork, cmd C, actor domain.Actor) (R, error) {
	var zero R
	log := h.logger(ctx, actor)

	// 1. Map
	work, err := h.Map(cmd, actor)
	if err != nil {
		return zero, h.reject(log, "map", err)
	}

	// 2. Validate
	if err := ctx.Err(); err != nil {
		return zero, h.cancelled(log, "validate", err)
	}
	if h.Validate != nil {
		if err := h.Validate(ctx, work, actor); err != nil {
			return zero, h.reject(log, "validate", err)
		}
	}

	// 3. Persist
	root := work.Target()
	if err := ctx.Err(); err != nil {
		return zero, h.cancelled(log, "persist", err)
	}
	if err := uow.Track(ctx, root); err != nil {
		return zero, h.fail(log, "persist", err)
	}

	// 4. Publish: misma unidad de trabajo que el agregado
	if h.PublishIntegrationEvents != nil {
		meta := EventMeta{
			ActorID:       actor.ID,
			HandlerName:   h.Name,
			CorrelationID: logger.RequestID(ctx),
		}
		events, err := h.PublishIntegrationEvents(work, meta)
		if err != nil {
			return zero, h.fail(log, "publish", err)
		}
		for _, evt := range events {
			if err := uow.Enqueue(ctx, evt); err != nil {
				return zero, h.fail(log, "publish", err)
			}
		}
	}

	// 5. Commit
	if err := ctx.Err(); err != nil {
		return zero, h.cancelled(log, "commit", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return zero, h.fail(log, "commit", err)
	}
	root.MarkCommitted()

	log.Debug("command committed",
		zap.String("aggregate_id", root.ID().String()),
		zap.String("aggregate_kind", root.Kind()),
	)

	// 6. Respond
	return h.BuildResponse(work), nil
}

func (h *CommandHandler[C, W, R]) reject(log *zap.Logger, stage string, err error) error {
	var dErr *domain.Error
	if !errors.As(err, &dErr) {
		return h.fail(log, stage, err)
	}
	codes := make([]string, 0, len(dErr.Violations))
	for _, v := range dErr.Violations {
		codes = append(codes, v.Code)
	}
	log.Info("command rejected",
		zap.String("stage", stage),
		zap.String("kind", string(dErr.Kind)),
		zap.Strings("codes", codes),
	)
	return dErr
}

func (h *CommandHandler[C, W, R]) fail(log *zap.Logger, stage string, err error) error {
	if domain.IsKind(err, domain.KindConflict) {
		log.Warn("command conflicted", zap.String("stage", stage), zap.Error(err))
		return err
	}
	log.Error("command failed", zap.String("stage", stage), zap.Error(err))
	return domain.Unexpected(fmt.Errorf("%s %s: %w", h.Name, stage, err))
}

func (h *CommandHandler[C, W, R]) cancelled(log *zap.Logger, stage string, err error) error {
	log.Info("command cancelled", zap.String("stage", stage))
	return domain.Unexpected(fmt.Errorf("%s cancelled before %s: %w", h.Name, stage, err))
}
