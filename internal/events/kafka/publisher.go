package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ledger-core-go/internal/events"

	"github.com/gowebpki/jcs"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Compile-time check: *Publisher must satisfy events.Publisher.
var _ events.Publisher = (*Publisher)(nil)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes ledger events to a Kafka topic as RFC 8785 canonical JSON.
// Messages are keyed by payer id so events for one account keep their order
// within a partition.
type Publisher struct {
	writer messageWriter
	topic  string
}

func NewPublisher(brokers []string, topic string) *Publisher {
	zap.L().Info("Kafka event publisher configured",
		zap.Strings("brokers", brokers),
		zap.String("topic", topic))

	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			MaxAttempts:            3,
			BatchTimeout:           10 * time.Millisecond,
			WriteTimeout:           10 * time.Second,
			AllowAutoTopicCreation: true,
			Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
				zap.L().Debug(fmt.Sprintf(msg, args...))
			}),
			ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
				zap.L().Warn(fmt.Sprintf(msg, args...))
			}),
		},
		topic: topic,
	}
}

func (p *Publisher) PublishEntryRecorded(ctx context.Context, event events.EntryRecorded) error {
	payload, err := canonicalPayload(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", events.TypeEntryRecorded, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.PayerId),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(events.TypeEntryRecorded)},
			{Key: "entry_id", Value: []byte(event.EntryId)},
		},
		Time: event.OccurredAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// canonicalPayload returns the RFC 8785 canonical JSON encoding of v.
func canonicalPayload(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jcs.Transform(raw)
}
