package events

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/agrofarm/internal/shared/infra/platform/bus"
)

// messageWriter es la parte de kafka.Writer que usamos.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	log    *zap.Logger
}

// NewKafkaWriter crea un writer sin topic fijo: cada mensaje lleva el suyo.
// El balanceo por hash mantiene en orden los eventos de un mismo agregado.
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(writer messageWriter, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msg sharedBus.Message) error {
	km := kafka.Message{
		Topic: msg.Topic,
		Key:   []byte(msg.Key),
		Value: msg.Value,
		Headers: []kafka.Header{
			{Key: EventTypeHeader, Value: []byte(msg.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, km); err != nil {
		p.log.Error("Error publishing to Kafka", zap.String("topic", msg.Topic), zap.String("event_type", msg.Type), zap.Error(err))
		return fmt.Errorf("kafka publish %s: %w", msg.Type, err)
	}

	p.log.Debug("Event published to Kafka", zap.String("topic", msg.Topic), zap.String("key", msg.Key), zap.String("event_type", msg.Type))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ sharedBus.EventBus = (*KafkaPublisher)(nil)
