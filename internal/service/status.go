package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"
	"github.com/SergeyBogomolovv/storefront-orders/pkg/trm"

	"github.com/google/uuid"
)

type StatusRepo interface {
	// GetOrderForUpdate locks the order row for the current transaction.
	GetOrderForUpdate(ctx context.Context, orderID string) (entities.Order, error)
	// UpdateOrderStatus writes the patch only if the row still has version,
	// otherwise it returns entities.ErrVersionConflict.
	UpdateOrderStatus(ctx context.Context, orderID string, version int, patch entities.StatusPatch) error
	SaveStatusChange(ctx context.Context, change entities.StatusChange) error
}

type Notifier interface {
	NotifyStatusChange(ctx context.Context, order entities.Order) error
}

// OrderCache receives the committed order after every status change.
type OrderCache interface {
	Set(key string, version int64, value []byte) bool
	Delete(key string)
}

// StatusUpdate is a requested status change. Force skips the transition
// table; ExpectedVersion, when set, must match the stored order version.
type StatusUpdate struct {
	Status          entities.OrderStatus
	SendEmail       bool
	TrackingNumber  string
	CarrierService  string
	Force           bool
	ExpectedVersion *int
	Source          entities.TransitionSource
}

type StatusUpdateResult struct {
	OrderID        string
	PreviousStatus entities.OrderStatus
	NewStatus      entities.OrderStatus
	TrackingAdded  bool
	EmailSent      bool
	Forced         bool
	Version        int
}

type statusService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      StatusRepo
	notifier  Notifier
	cache     OrderCache
	now       func() time.Time
}

func NewStatusService(logger *slog.Logger, txManager trm.Manager, repo StatusRepo, notifier Notifier, cache OrderCache) *statusService {
	return &statusService{
		logger:    logger.With(slog.String("service", "order_status")),
		txManager: txManager,
		repo:      repo,
		notifier:  notifier,
		cache:     cache,
		now:       time.Now,
	}
}

// UpdateStatus applies a status change inside one transaction and, after it
// commits, optionally sends the customer notification. A failed notification
// does not undo the change; it is reported through EmailSent.
func (s *statusService) UpdateStatus(ctx context.Context, orderID string, upd StatusUpdate) (StatusUpdateResult, error) {
	status, err := entities.ParseOrderStatus(string(upd.Status))
	if err != nil {
		return StatusUpdateResult{}, err
	}
	upd.Status = status
	if upd.Source == "" {
		upd.Source = entities.SourceAdmin
	}

	var previous, updated entities.Order
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if upd.ExpectedVersion != nil && *upd.ExpectedVersion != order.Version {
			return entities.ErrVersionConflict
		}

		if !upd.Force && !order.Status.CanTransitionTo(upd.Status) {
			return &entities.TransitionError{From: order.Status, To: upd.Status}
		}

		now := s.now().UTC()
		patch := entities.StatusPatch{Status: upd.Status, UpdatedAt: now}
		if upd.TrackingNumber != "" {
			patch.TrackingNumber = &upd.TrackingNumber
		}
		if upd.CarrierService != "" {
			patch.CarrierService = &upd.CarrierService
		}
		if upd.Status == entities.StatusShipped && order.ShippedAt == nil {
			patch.ShippedAt = &now
		}

		if err := s.repo.UpdateOrderStatus(ctx, order.ID, order.Version, patch); err != nil {
			return err
		}

		change := entities.StatusChange{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			From:      order.Status,
			To:        upd.Status,
			Forced:    upd.Force,
			Source:    upd.Source,
			CreatedAt: now,
		}
		if err := s.repo.SaveStatusChange(ctx, change); err != nil {
			return fmt.Errorf("failed to save status change: %w", err)
		}

		previous = order
		updated = patch.Apply(order)
		return nil
	})
	if err != nil {
		if errors.Is(err, entities.ErrInvalidTransition) {
			rejectedTransitions.WithLabelValues(string(upd.Source)).Inc()
		}
		return StatusUpdateResult{}, err
	}

	s.refreshCache(updated)
	statusTransitions.WithLabelValues(string(previous.Status), string(updated.Status), strconv.FormatBool(upd.Force)).Inc()

	attrs := []any{
		slog.String("order_id", orderID),
		slog.String("from", string(previous.Status)),
		slog.String("to", string(updated.Status)),
		slog.String("source", string(upd.Source)),
	}
	if upd.Force {
		s.logger.WarnContext(ctx, "order status forced", append(attrs, slog.Bool("forced", true))...)
	} else {
		s.logger.InfoContext(ctx, "order status changed", attrs...)
	}

	result := StatusUpdateResult{
		OrderID:        orderID,
		PreviousStatus: previous.Status,
		NewStatus:      updated.Status,
		TrackingAdded:  upd.TrackingNumber != "",
		Forced:         upd.Force,
		Version:        updated.Version,
	}

	if upd.SendEmail {
		if err := s.notifier.NotifyStatusChange(ctx, updated); err != nil {
			s.logger.ErrorContext(ctx, "failed to send status notification", slog.String("order_id", orderID), slog.Any("error", err))
		} else {
			result.EmailSent = true
		}
	}

	return result, nil
}

// refreshCache replaces the cached order with the committed one. If it cannot
// be encoded the entry is dropped instead.
func (s *statusService) refreshCache(order entities.Order) {
	data, err := order.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal order", slog.String("order_id", order.ID), slog.Any("error", err))
		s.cache.Delete(order.ID)
		return
	}
	s.cache.Set(order.ID, int64(order.Version), data)
}
