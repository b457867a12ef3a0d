package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"fyyur/internal/logger"
)

type Producer struct {
	Writer *kafka.Writer
	logger *logger.Logger
}

// NewProducer returns a producer that routes each event to its own topic.
func NewProducer(brokers []string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &Producer{Writer: writer, logger: log}
}

func (p *Producer) Publish(ctx context.Context, event Event) error {
	msg, err := message(event)
	if err != nil {
		return err
	}

	p.logger.LogEvent("PUBLISH", event.Topic, fmt.Sprintf("id=%d", event.ID))

	if err := p.Writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

func message(event Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal %s event: %w", event.Topic, err)
	}
	return kafka.Message{
		Topic: event.Topic,
		Key:   []byte(strconv.FormatInt(event.ID, 10)),
		Value: value,
		Time:  event.OccurredAt,
	}, nil
}
