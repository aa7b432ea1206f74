package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// DefaultWriteTimeout bounds a single Kafka write
const DefaultWriteTimeout = 5 * time.Second

// MessageWriter is the subset of *kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the JSON value written for every integration event
type Envelope struct {
	EventID       string             `json:"event_id"`
	EventType     string             `json:"event_type"`
	AggregateType string             `json:"aggregate_type"`
	AggregateID   int64              `json:"aggregate_id"`
	OccurredAt    time.Time          `json:"occurred_at"`
	Payload       shared.DomainEvent `json:"payload"`
}

// KafkaPublisher forwards domain events to a Kafka topic. It subscribes to
// the event bus as a wildcard handler.
type KafkaPublisher struct {
	writer       MessageWriter
	writeTimeout time.Duration
	logger       *zap.Logger
}

// NewKafkaWriter builds a writer for cfg
func NewKafkaWriter(cfg config.KafkaConfig) (*kafka.Writer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka topic is required")
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}, nil
}

// NewKafkaPublisher wraps writer. A non-positive timeout uses DefaultWriteTimeout.
func NewKafkaPublisher(writer MessageWriter, writeTimeout time.Duration, logger *zap.Logger) *KafkaPublisher {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &KafkaPublisher{
		writer:       writer,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// Handle writes one event. Messages are keyed by aggregate so events of one
// order land on one partition in order.
func (p *KafkaPublisher) Handle(ctx context.Context, event shared.DomainEvent) error {
	value, err := json.Marshal(Envelope{
		EventID:       event.EventID().String(),
		EventType:     event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		OccurredAt:    event.OccurredAt(),
		Payload:       event,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(MessageKey(event)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
			{Key: "event_id", Value: []byte(event.EventID().String())},
		},
		Time: event.OccurredAt(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write event to kafka: %w", err)
	}

	p.logger.Debug("event published to kafka",
		zap.String("event_type", event.EventType()),
		zap.String("key", string(msg.Key)),
	)
	return nil
}

// EventTypes returns nil, the publisher receives every event
func (p *KafkaPublisher) EventTypes() []string {
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// MessageKey returns "<aggregate type>-<aggregate id>"
func MessageKey(event shared.DomainEvent) string {
	return event.AggregateType() + "-" + strconv.FormatInt(event.AggregateID(), 10)
}

var _ shared.EventHandler = (*KafkaPublisher)(nil)
