// Command tracking-generator publishes carrier tracking updates to the
// tracking topic for local testing. Tracking numbers given as arguments walk
// through the usual carrier lifecycle; without arguments random numbers are
// used, which the service acknowledges as unknown.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SergeyBogomolovv/storefront-orders/internal/config"
	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"
	"github.com/SergeyBogomolovv/storefront-orders/internal/handler"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
)

var lifecycle = []string{
	entities.CarrierPreTransit,
	entities.CarrierInTransit,
	entities.CarrierOutForDelivery,
	entities.CarrierDelivered,
}

func main() {
	_ = godotenv.Load()
	conf := config.New()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	writer := &kafka.Writer{
		Addr:         kafka.TCP(conf.Kafka.Brokers...),
		Topic:        conf.Kafka.TrackingTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: conf.Kafka.BatchTimeout,
	}
	defer writer.Close()

	numbers := os.Args[1:]
	step := make(map[string]int, len(numbers))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			event := nextEvent(numbers, step)
			data, _ := json.Marshal(event)
			msg := kafka.Message{Key: []byte(event.TrackingNumber), Value: data}
			if err := writer.WriteMessages(ctx, msg); err != nil {
				logger.Error("failed to publish tracking event", slog.Any("error", err))
				continue
			}
			logger.Info("tracking event published",
				slog.String("tracking_number", event.TrackingNumber),
				slog.String("status", event.Status),
			)
		case <-ctx.Done():
			return
		}
	}
}

func nextEvent(numbers []string, step map[string]int) handler.TrackingEvent {
	if len(numbers) == 0 {
		return handler.TrackingEvent{
			TrackingNumber: "1Z" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16]),
			Status:         lifecycle[rand.Intn(len(lifecycle))],
		}
	}

	number := numbers[rand.Intn(len(numbers))]
	i := step[number]
	if i < len(lifecycle)-1 {
		step[number] = i + 1
	}
	return handler.TrackingEvent{TrackingNumber: number, Status: lifecycle[i]}
}
