package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/agrofarm/internal/shared/domain"
	sharedBus "github.com/davicafu/agrofarm/internal/shared/infra/platform/bus"
)

// EventTypeHeader lleva el tipo de evento de integración en cada mensaje Kafka.
const EventTypeHeader = "event_type"

// MessageHandler procesa un mensaje ya traducido al formato del bus.
type MessageHandler func(ctx context.Context, msg sharedBus.Message)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// ConsumerAdapter es el "oído" que escucha en Kafka.
type ConsumerAdapter struct {
	reader  messageReader
	topic   string
	handler MessageHandler
	log     *zap.Logger
}

func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
}

func NewConsumerAdapter(reader messageReader, topic string, handler MessageHandler, log *zap.Logger) *ConsumerAdapter {
	return &ConsumerAdapter{reader: reader, topic: topic, handler: handler, log: log}
}

// Start inicia el bucle de consumo en una goroutine. Devuelve un canal que se
// cierra cuando el bucle termina.
func (c *ConsumerAdapter) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	c.log.Info("🎧 Iniciando consumidor de Kafka...", zap.String("topic", c.topic))

	go func() {
		defer close(done)
		for {
			// ReadMessage es una llamada bloqueante.
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, io.EOF) {
					c.log.Info("Consumidor de Kafka detenido.", zap.String("topic", c.topic))
					return
				}
				c.log.Error("Error al leer mensaje de Kafka", zap.Error(err))
				continue
			}
			c.handler(ctx, fromKafka(c.topic, msg))
		}
	}()
	return done
}

func (c *ConsumerAdapter) Close() error {
	return c.reader.Close()
}

func fromKafka(topic string, m kafka.Message) sharedBus.Message {
	out := sharedBus.Message{Topic: m.Topic, Key: string(m.Key), Value: m.Value}
	if out.Topic == "" {
		out.Topic = topic
	}
	for _, h := range m.Headers {
		if h.Key == EventTypeHeader {
			out.Type = string(h.Value)
		}
	}
	return out
}

// LogHandler escribe en el log cada evento recibido con los datos de su sobre.
func LogHandler(log *zap.Logger) MessageHandler {
	return func(_ context.Context, msg sharedBus.Message) {
		fields := []zap.Field{
			zap.String("topic", msg.Topic),
			zap.String("key", msg.Key),
			zap.String("event_type", msg.Type),
		}
		var envelope sharedDomain.IntegrationEvent
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			log.Warn("Failed to unmarshal event envelope", append(fields, zap.Error(err))...)
			return
		}
		log.Info("📨 Evento recibido", append(fields,
			zap.String("event_id", envelope.EventID.String()),
			zap.String("aggregate_type", envelope.AggregateType),
			zap.String("correlation_id", envelope.CorrelationID),
		)...)
	}
}
