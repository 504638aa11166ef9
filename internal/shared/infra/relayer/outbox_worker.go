package relayer

import (
	"context"
	"time"

	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/agrofarm/internal/shared/domain"
	sharedBus "github.com/davicafu/agrofarm/internal/shared/infra/platform/bus"
)

// Worker drena la outbox y publica cada fila en su topic.
type Worker struct {
	repo          sharedDomain.OutboxRepository
	publisher     sharedBus.EventBus
	eventRegistry map[string]sharedDomain.EventMetadata
	interval      time.Duration
	batchSize     int
	maxRetries    int
	log           *zap.Logger
}

// BatchResult resume una pasada del worker.
type BatchResult struct {
	Fetched    int
	Dispatched int
	Failed     int
	Skipped    int
}

func NewOutboxWorker(
	repo sharedDomain.OutboxRepository,
	publisher sharedBus.EventBus,
	registry map[string]sharedDomain.EventMetadata,
	interval time.Duration,
	batchSize int,
	maxRetries int,
	log *zap.Logger,
) *Worker {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &Worker{
		repo:          repo,
		publisher:     publisher,
		eventRegistry: registry,
		interval:      interval,
		batchSize:     batchSize,
		maxRetries:    maxRetries,
		log:           log,
	}
}

// Start bloquea hasta que se cancele ctx.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("🚀 Outbox worker iniciado", zap.Duration("interval", w.interval), zap.Int("batch_size", w.batchSize))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("🛑 Outbox worker detenido")
			return
		case <-ticker.C:
			w.ProcessBatch(ctx)
		}
	}
}

func (w *Worker) ProcessBatch(ctx context.Context) BatchResult {
	var res BatchResult

	events, err := w.repo.FetchPendingOutbox(ctx, w.batchSize)
	if err != nil {
		w.log.Warn("⚠️ Error al obtener eventos pendientes", zap.Error(err))
		return res
	}
	res.Fetched = len(events)
	if len(events) > 0 {
		w.log.Debug("📬 Eventos pendientes", zap.Int("count", len(events)))
	}

	for _, evt := range events {
		if ctx.Err() != nil {
			break
		}
		switch w.publishAndMark(ctx, evt) {
		case outcomeDispatched:
			res.Dispatched++
		case outcomeFailed:
			res.Failed++
		default:
			res.Skipped++
		}
	}
	return res
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeDispatched
	outcomeFailed
)

func (w *Worker) publishAndMark(ctx context.Context, evt sharedDomain.OutboxEvent) outcome {
	log := w.log.With(zap.String("event_id", evt.ID.String()), zap.String("event_type", evt.EventType))

	// Tipos desconocidos se quedan pendientes hasta que algún despliegue los registre.
	metadata, ok := w.eventRegistry[evt.EventType]
	if !ok {
		log.Error("Tipo de evento desconocido en registro")
		return outcomeSkipped
	}

	msg := sharedBus.Message{
		Topic: metadata.Topic,
		Key:   evt.AggregateID,
		Type:  evt.EventType,
		Value: evt.Payload,
	}

	if err := w.publisher.Publish(ctx, msg); err != nil {
		log.Warn("⚠️ No se pudo publicar evento", zap.Int("retry_count", evt.RetryCount+1), zap.Error(err))
		if mErr := w.repo.MarkOutboxFailed(ctx, evt.ID, err.Error(), w.maxRetries); mErr != nil {
			log.Warn("⚠️ No se pudo registrar el fallo", zap.Error(mErr))
		}
		return outcomeFailed
	}

	if err := w.repo.MarkOutboxDispatched(ctx, evt.ID); err != nil {
		// Se volverá a publicar: los consumidores deduplican por eventId.
		log.Warn("⚠️ No se pudo marcar evento como publicado", zap.Error(err))
		return outcomeFailed
	}

	log.Info("✅ Evento publicado y marcado", zap.String("topic", metadata.Topic))
	return outcomeDispatched
}
