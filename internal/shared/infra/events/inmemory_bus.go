package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	sharedBus "github.com/davicafu/agrofarm/internal/shared/infra/platform/bus"
)

// InMemoryEventBus reparte mensajes por topic a los suscriptores locales.
// Si un suscriptor tiene el buffer lleno el mensaje se descarta para él.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan sharedBus.Message
	closed      bool
	log         *zap.Logger
}

var _ sharedBus.EventBus = (*InMemoryEventBus)(nil)

func NewInMemoryEventBus(log *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make(map[string][]chan sharedBus.Message),
		log:         log,
	}
}

func (b *InMemoryEventBus) Publish(ctx context.Context, msg sharedBus.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}

	for _, ch := range b.subscribers[msg.Topic] {
		select {
		case ch <- msg:
		default:
			b.log.Warn("⚠️ Subscriber buffer full, message dropped", zap.String("topic", msg.Topic), zap.String("event_type", msg.Type))
		}
	}
	return nil
}

// Subscribe devuelve un canal con los mensajes del topic.
func (b *InMemoryEventBus) Subscribe(topic string, bufferSize int) <-chan sharedBus.Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan sharedBus.Message, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch
}

// Close cierra todos los canales de suscripción.
func (b *InMemoryEventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
}

// LogConsumer pasa cada mensaje del canal a LogHandler hasta que se cierre o se cancele ctx.
func LogConsumer(ctx context.Context, msgs <-chan sharedBus.Message, log *zap.Logger) {
	handle := LogHandler(log)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			handle(ctx, msg)
		}
	}
}
