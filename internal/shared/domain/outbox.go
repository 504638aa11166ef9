package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxDispatched OutboxStatus = "dispatched"
	OutboxFailed     OutboxStatus = "failed"
)

// OutboxEvent representa un evento pendiente de publicar en el broker.
type OutboxEvent struct {
	ID            uuid.UUID       `json:"id"`
	AggregateType string          `json:"aggregate_type"` // ej. "property", "plot", "sensor"
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"` // ej. "property.created"
	Payload       json.RawMessage `json:"payload"`    // IntegrationEvent serializado
	CreatedAt     time.Time       `json:"created_at"`
	Status        OutboxStatus    `json:"status"`
	RetryCount    int             `json:"retry_count"`
	LastError     string          `json:"last_error,omitempty"`
}

// NewOutboxEvent serializa el evento de integración en una fila pendiente.
func NewOutboxEvent(evt IntegrationEvent) (OutboxEvent, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("marshal integration event %s: %w", evt.EventType, err)
	}
	return OutboxEvent{
		ID:            evt.EventID,
		AggregateType: evt.AggregateType,
		AggregateID:   evt.AggregateID.String(),
		EventType:     evt.EventType,
		Payload:       payload,
		CreatedAt:     evt.OccurredOn,
		Status:        OutboxPending,
		RetryCount:    0,
	}, nil
}

// OutboxRepository define el contrato para acceder a la tabla outbox.
// Contiene solo los métodos que el worker necesita.
type OutboxRepository interface {
	FetchPendingOutbox(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkOutboxDispatched(ctx context.Context, id uuid.UUID) error
	MarkOutboxFailed(ctx context.Context, id uuid.UUID, reason string, maxRetries int) error
}

// EventMetadata indica a qué topic va cada tipo de evento.
type EventMetadata struct {
	Topic string
}
