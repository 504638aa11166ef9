package application

import (
	"github.com/google/uuid"

	"github.com/davicafu/agrofarm/internal/shared/domain"
)

// Translator decide la forma de integración de un evento de dominio.
// ok=false significa evento interno: se descarta sin error.
type Translator func(evt domain.DomainEvent) (eventType string, payload any, ok bool)

// MapIntegrationEvents construye la etapa Publish a partir de una tabla de traducción.
func MapIntegrationEvents[W Work](translate Translator) func(work W, meta EventMeta) ([]domain.IntegrationEvent, error) {
	return func(work W, meta EventMeta) ([]domain.IntegrationEvent, error) {
		root := work.Target()
		pending := root.UncommittedEvents()

		out := make([]domain.IntegrationEvent, 0, len(pending))
		for _, evt := range pending {
			eventType, payload, ok := translate(evt)
			if !ok {
				continue
			}
			out = append(out, domain.IntegrationEvent{
				EventID:       uuid.New(),
				EventType:     eventType,
				AggregateType: root.Kind(),
				AggregateID:   evt.AggregateID(),
				ActorID:       meta.ActorID,
				HandlerName:   meta.HandlerName,
				CorrelationID: meta.CorrelationID,
				OccurredOn:    evt.OccurredOn(),
				Payload:       payload,
			})
		}
		return out, nil
	}
}
