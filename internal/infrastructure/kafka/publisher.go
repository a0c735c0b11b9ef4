package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-cashout-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

// Publisher writes messages to a single topic. Writes are asynchronous so a
// slow broker never holds up a quote request; delivery failures are logged.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			WriteTimeout: 5 * time.Second,
			Async:        true,
			Completion: func(messages []kafka.Message, err error) {
				if err != nil {
					slog.Error("kafka delivery failed", "topic", topic, "messages", len(messages), "error", err)
				}
			},
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
		})
	}
	return p.writer.WriteMessages(ctx, km...)
}

// Close flushes pending messages.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
