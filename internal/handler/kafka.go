package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SergeyBogomolovv/storefront-orders/internal/config"
	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"
	"github.com/SergeyBogomolovv/storefront-orders/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/kafka-go"
)

type OrderCreator interface {
	CreateOrder(ctx context.Context, checkout entities.Checkout) (entities.Order, error)
}

type CarrierUpdateHandler interface {
	HandleCarrierUpdate(ctx context.Context, trackingNumber, carrierStatus string) (service.RefreshResult, error)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaHandler reads one topic and hands every message to handle. Messages
// that fail are copied to <topic>-dlq before the offset is committed.
type kafkaHandler struct {
	name     string
	dlq      messageWriter
	reader   messageReader
	logger   *slog.Logger
	validate *validator.Validate
	handle   func(ctx context.Context, m kafka.Message) error
}

func newKafkaHandler(logger *slog.Logger, cfg config.Kafka, name, topic string) *kafkaHandler {
	return &kafkaHandler{
		name:   name,
		logger: logger.With(slog.String("handler", "kafka"), slog.String("consumer", name)),
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: cfg.Brokers,
			GroupID: cfg.GroupID,
			Topic:   topic,
			MaxWait: cfg.ReaderMaxWait,
		}),
		dlq: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
		validate: validator.New(),
	}
}

// NewCheckoutHandler creates pending orders from checkout-completed events.
func NewCheckoutHandler(logger *slog.Logger, cfg config.Kafka, creator OrderCreator) *kafkaHandler {
	h := newKafkaHandler(logger, cfg, "checkout", cfg.CheckoutTopic)
	h.handle = checkoutMessageHandler(h.logger, h.validate, creator)
	return h
}

// NewTrackingHandler applies carrier statuses relayed from tracking webhooks.
func NewTrackingHandler(logger *slog.Logger, cfg config.Kafka, tracker CarrierUpdateHandler) *kafkaHandler {
	h := newKafkaHandler(logger, cfg, "tracking", cfg.TrackingTopic)
	h.handle = trackingMessageHandler(h.logger, h.validate, tracker)
	return h
}

func (h *kafkaHandler) Consume(ctx context.Context) {
	for {
		m, err := h.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				break
			}
			h.logger.Error("failed to fetch message", slog.Any("error", err))
			continue
		}

		h.process(ctx, m)
	}
}

func (h *kafkaHandler) process(ctx context.Context, m kafka.Message) {
	messagesInProgress.WithLabelValues(h.name).Inc()
	defer messagesInProgress.WithLabelValues(h.name).Dec()

	start := time.Now()
	err := h.handle(ctx, m)
	messageProcessingDuration.WithLabelValues(h.name).Observe(time.Since(start).Seconds())

	if err != nil {
		messagesFailed.WithLabelValues(h.name).Inc()
		h.logger.Error("failed to handle message", slog.Any("error", err))

		if err := h.writeToDLQ(ctx, m); err != nil {
			h.logger.Error("failed to write message to DLQ", slog.Any("error", err))
			return
		}
		messagesDLQ.WithLabelValues(h.name).Inc()
	} else {
		messagesProcessed.WithLabelValues(h.name).Inc()
	}

	if err := h.reader.CommitMessages(ctx, m); err != nil {
		commitErrors.WithLabelValues(h.name).Inc()
		h.logger.Error("failed to commit message", slog.Any("error", err))
	}
}

func (h *kafkaHandler) writeToDLQ(ctx context.Context, m kafka.Message) error {
	m.Topic = fmt.Sprintf("%s-dlq", m.Topic)
	return h.dlq.WriteMessages(ctx, m)
}

func (h *kafkaHandler) Close() error {
	if err := h.reader.Close(); err != nil {
		return err
	}
	return h.dlq.Close()
}

func checkoutMessageHandler(logger *slog.Logger, validate *validator.Validate, creator OrderCreator) func(context.Context, kafka.Message) error {
	return func(ctx context.Context, m kafka.Message) error {
		var event CheckoutEvent
		if err := json.Unmarshal(m.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal checkout event: %w", err)
		}
		if err := validate.Struct(event); err != nil {
			return fmt.Errorf("invalid checkout event: %w", err)
		}

		order, err := creator.CreateOrder(ctx, event.ToEntity())
		if errors.Is(err, entities.ErrDuplicateCheckout) {
			logger.Info("checkout already processed", slog.String("payment_intent_id", event.PaymentIntentID))
			return nil
		}
		if err != nil {
			return err
		}

		logger.Info("order created",
			slog.String("order_id", order.ID),
			slog.String("order_number", order.OrderNumber),
		)
		return nil
	}
}

func trackingMessageHandler(logger *slog.Logger, validate *validator.Validate, tracker CarrierUpdateHandler) func(context.Context, kafka.Message) error {
	return func(ctx context.Context, m kafka.Message) error {
		var event TrackingEvent
		if err := json.Unmarshal(m.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal tracking event: %w", err)
		}
		if err := validate.Struct(event); err != nil {
			return fmt.Errorf("invalid tracking event: %w", err)
		}

		res, err := tracker.HandleCarrierUpdate(ctx, event.TrackingNumber, event.Status)
		if errors.Is(err, entities.ErrOrderNotFound) {
			// tracking numbers of other shops share the webhook
			logger.Debug("unknown tracking number", slog.String("tracking_number", event.TrackingNumber))
			return nil
		}
		if err != nil {
			return err
		}

		logger.Debug("carrier update handled",
			slog.String("order_id", res.OrderID),
			slog.String("outcome", string(res.Outcome)),
		)
		return nil
	}
}
