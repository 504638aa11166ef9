package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent describe algo que le ocurrió a un agregado. Vive solo en memoria
// durante un comando.
type DomainEvent interface {
	AggregateID() uuid.UUID
	OccurredOn() time.Time
	EventName() string
}

// EventHeader se embebe en cada evento concreto.
type EventHeader struct {
	ID uuid.UUID `json:"aggregateId"`
	At time.Time `json:"occurredOn"`
}

func NewEventHeader(id uuid.UUID) EventHeader {
	return EventHeader{ID: id, At: time.Now().UTC()}
}

func (h EventHeader) AggregateID() uuid.UUID { return h.ID }
func (h EventHeader) OccurredOn() time.Time  { return h.At }

// IntegrationEvent es la forma pública y duradera de un evento de dominio.
type IntegrationEvent struct {
	EventID       uuid.UUID `json:"eventId"`
	EventType     string    `json:"eventType"`
	AggregateType string    `json:"aggregateType"`
	AggregateID   uuid.UUID `json:"aggregateId"`
	ActorID       uuid.UUID `json:"actorId"`
	HandlerName   string    `json:"handlerName"`
	CorrelationID string    `json:"correlationId,omitempty"`
	OccurredOn    time.Time `json:"occurredOn"`
	Payload       any       `json:"payload"`
}
