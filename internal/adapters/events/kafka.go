package events

import (
	"context"
	"encoding/binary"
	"encoding/json"

	"learnstack-service/internal/config"
	"learnstack-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// Publisher emits activity events (votes, new answers) to Kafka. Publishing
// happens after the vote transaction has committed and is best-effort: a
// broker failure is reported to the caller for logging, never to the client.
type Publisher interface {
	PublishActivity(ctx context.Context, event models.ActivityEvent) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg *config.KafkaConfig) Publisher {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})
	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) PublishActivity(ctx context.Context, event models.ActivityEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Key by question so events for one target stay in partition order.
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(event.QuestionID))

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
