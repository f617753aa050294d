package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"vitals-service/internal/logging"
	"vitals-service/internal/models"
)

const readBackoff = 500 * time.Millisecond

// Updater applies an override to a room.
type Updater interface {
	Update(room string, u models.VitalSignsUpdate) (models.VitalSigns, error)
}

// MessageReader is satisfied by *kafka.Reader.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer applies override messages from a topic to the monitor.
type Consumer struct {
	reader  MessageReader
	updater Updater
	logger  *logging.Logger
}

// NewReader builds a consumer-group reader for the override topic.
func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
}

func NewConsumer(reader MessageReader, updater Updater, logger *logging.Logger) *Consumer {
	return &Consumer{reader: reader, updater: updater, logger: logger}
}

// Start reads until ctx is cancelled, then closes the reader.
func (c *Consumer) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if err := c.reader.Close(); err != nil {
				c.logger.Errorf("Kafka reader close failed: %v", err)
			}
		}()
		c.logger.Infof("Kafka override consumer started")
		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					c.logger.Infof("Kafka override consumer stopped")
					return
				}
				c.logger.Errorf("Read message failed: %v", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(readBackoff):
				}
				continue
			}
			if err := c.handle(msg); err != nil {
				c.logger.Warnf("Skipping override message at offset %d: %v", msg.Offset, err)
			}
		}
	}()
}

func (c *Consumer) handle(msg kafka.Message) error {
	var override models.OverrideMessage
	if err := json.Unmarshal(msg.Value, &override); err != nil {
		return fmt.Errorf("unmarshal override: %w", err)
	}
	room := strings.TrimSpace(override.RoomNumber)
	if room == "" {
		room = strings.TrimSpace(string(msg.Key))
	}
	if room == "" {
		return errors.New("missing roomNumber")
	}
	if _, err := c.updater.Update(room, override.VitalSignsUpdate); err != nil {
		return fmt.Errorf("update room %s: %w", room, err)
	}
	c.logger.Debugf("Applied override for room %s", room)
	return nil
}
