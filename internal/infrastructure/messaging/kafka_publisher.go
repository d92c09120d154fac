// Package messaging publica los eventos del libro de movimientos en Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/inventario-admin/internal/application/inventory"
)

const writeTimeout = 5 * time.Second

var (
	_ inventory.EventPublisher = (*KafkaPublisher)(nil)
	_ inventory.EventPublisher = (*NoopPublisher)(nil)
)

// KafkaPublisher escribe un mensaje JSON por evento, con el ID de producto como key
// para que los eventos de un mismo producto conserven el orden dentro de la partición.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher construye el writer sobre los brokers y el topic dados.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// PublishMovementEvent publica el evento con timeout propio de 5s.
func (p *KafkaPublisher) PublishMovementEvent(ctx context.Context, event *inventory.MovementEvent) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: escribir evento %s: %w", event.Type, err)
	}
	return nil
}

// Close libera el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func buildMessage(event *inventory.MovementEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: serializar evento: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ProductID, 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "event-id", Value: []byte(event.EventID)},
		},
	}, nil
}

// NoopPublisher se usa cuando no hay brokers configurados; solo deja traza en debug.
type NoopPublisher struct {
	log zerolog.Logger
}

// NewNoopPublisher construye el publicador vacío.
func NewNoopPublisher(log zerolog.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

func (p *NoopPublisher) PublishMovementEvent(_ context.Context, event *inventory.MovementEvent) error {
	p.log.Debug().
		Str("event_type", event.Type).
		Int64("movement_id", event.MovementID).
		Msg("evento descartado: kafka desactivado")
	return nil
}

// Close no hace nada.
func (p *NoopPublisher) Close() error { return nil }
