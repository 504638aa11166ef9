package bus

import "context"

// Message es lo que sale de la outbox hacia el broker. Value es el
// IntegrationEvent ya serializado; Key agrupa por agregado.
type Message struct {
	Topic string
	Key   string
	Type  string
	Value []byte
}

// EventBus publica un mensaje. La semántica de entrega la decide cada adapter.
type EventBus interface {
	Publish(ctx context.Context, msg Message) error
}
