package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"busly/internal/shared/config"
	"busly/pkg/logger"
)

// EventProducer publishes booking events to Kafka
type EventProducer interface {
	Publish(ctx context.Context, event *BookingEvent) error
	Close() error
}

type kafkaEventProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewEventProducer creates a synchronous Kafka producer for the booking
// events topic. Idempotent writes with full-ISR acks, hash-partitioned
// by booking reference.
func NewEventProducer(cfg config.KafkaConfig) (EventProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaEventProducer{
		producer: producer,
		topic:    cfg.EventsTopic,
		log:      logger.GetDefault(),
	}, nil
}

func (p *kafkaEventProducer) Publish(ctx context.Context, event *BookingEvent) error {
	payload, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: event.OccurredAt,
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	p.log.Debug("booking event published",
		"type", string(event.Type),
		"booking_reference", event.BookingReference,
		"partition", partition,
		"offset", offset)
	return nil
}

func (p *kafkaEventProducer) Close() error {
	return p.producer.Close()
}
