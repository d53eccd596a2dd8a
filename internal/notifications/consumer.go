package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"busly/internal/shared/config"
	"busly/pkg/logger"
)

// EventConsumer drains the booking events topic
type EventConsumer interface {
	Start(ctx context.Context) error
	Stop() error
}

type kafkaEventConsumer struct {
	group  sarama.ConsumerGroup
	topics []string
	log    *logger.Logger
	cancel context.CancelFunc
}

// NewEventConsumer creates a consumer group over the booking events
// topic. The current handler only records deliveries; rider SMS/email
// fan-out hangs off this consumer when a delivery channel exists.
func NewEventConsumer(cfg config.KafkaConfig) (EventConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaEventConsumer{
		group:  group,
		topics: []string{cfg.EventsTopic},
		log:    logger.GetDefault(),
	}, nil
}

func (c *kafkaEventConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.group.Errors() {
			c.log.Error("consumer group error", "error", err)
		}
	}()

	go func() {
		handler := &eventHandler{log: c.log}
		for {
			if err := c.group.Consume(ctx, c.topics, handler); err != nil {
				c.log.Error("consumer session ended", "error", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	return nil
}

func (c *kafkaEventConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return c.group.Close()
}

type eventHandler struct {
	log *logger.Logger
}

func (h *eventHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *eventHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *eventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event BookingEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			h.log.Error("dropping malformed booking event",
				"topic", message.Topic,
				"offset", message.Offset,
				"error", err)
			session.MarkMessage(message, "")
			continue
		}

		h.log.Info("booking event delivered",
			"type", string(event.Type),
			"booking_reference", event.BookingReference,
			"agency", event.AgencyName,
			"route", event.Route)

		session.MarkMessage(message, "")
	}
	return nil
}
