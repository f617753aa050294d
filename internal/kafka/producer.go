package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"vitals-service/internal/models"
)

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes snapshots and alerts keyed by room number.
type Producer struct {
	vitals MessageWriter
	alerts MessageWriter
}

// NewWriter builds a writer for one topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

func NewProducer(vitals, alerts MessageWriter) *Producer {
	return &Producer{vitals: vitals, alerts: alerts}
}

func (p *Producer) Name() string { return "kafka" }

func (p *Producer) Deliver(ctx context.Context, event models.Event) error {
	switch {
	case event.Kind == models.EventSnapshot && event.Snapshot != nil:
		return publish(ctx, p.vitals, event.Snapshot.RoomNumber, event.Snapshot)
	case event.Kind == models.EventAlert && event.Alert != nil:
		return publish(ctx, p.alerts, event.Alert.RoomNumber, event.Alert)
	}
	return fmt.Errorf("unsupported event kind %q", event.Kind)
}

// Close flushes and closes both writers.
func (p *Producer) Close() error {
	return errors.Join(p.vitals.Close(), p.alerts.Close())
}

func publish(ctx context.Context, w MessageWriter, key string, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message for room %s: %w", key, err)
	}
	if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return fmt.Errorf("write message for room %s: %w", key, err)
	}
	return nil
}
