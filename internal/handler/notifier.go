package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SergeyBogomolovv/storefront-orders/internal/config"
	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"

	"github.com/segmentio/kafka-go"
)

// kafkaNotifier publishes status notifications for the mailer.
type kafkaNotifier struct {
	logger *slog.Logger
	writer messageWriter
}

func NewKafkaNotifier(logger *slog.Logger, cfg config.Kafka) *kafkaNotifier {
	return &kafkaNotifier{
		logger: logger.With(slog.String("handler", "notifier")),
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.NotificationTopic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           cfg.BatchTimeout,
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

func (n *kafkaNotifier) NotifyStatusChange(ctx context.Context, order entities.Order) error {
	payload, err := json.Marshal(NotificationFromEntity(order))
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	n.logger.Debug("notification published", slog.String("order_id", order.ID), slog.String("status", string(order.Status)))
	return nil
}

func (n *kafkaNotifier) Close() error {
	return n.writer.Close()
}
