package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"
)

type TrackingRepo interface {
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	GetOrderByTrackingNumber(ctx context.Context, trackingNumber string) (entities.Order, error)
	// OrdersAwaitingDelivery returns shipped, in-transit and out-for-delivery
	// orders that carry a tracking number.
	OrdersAwaitingDelivery(ctx context.Context) ([]entities.Order, error)
}

type TrackingProvider interface {
	GetTrackingStatus(ctx context.Context, trackingNumber, carrier string) (string, error)
}

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID string, upd StatusUpdate) (StatusUpdateResult, error)
}

type RefreshOutcome string

const (
	OutcomeUpdated   RefreshOutcome = "updated"
	OutcomeUnchanged RefreshOutcome = "unchanged"
	OutcomeRejected  RefreshOutcome = "rejected"
	OutcomeFailed    RefreshOutcome = "failed"
)

type RefreshResult struct {
	OrderID        string
	CarrierStatus  string
	PreviousStatus entities.OrderStatus
	ProposedStatus entities.OrderStatus
	Outcome        RefreshOutcome
}

type TrackingImport struct {
	OrderID        string
	TrackingNumber string
	CarrierService string
	SendEmail      bool
}

type BulkItemError struct {
	OrderID string
	Error   string
}

// BulkResult aggregates a batch run; one item failing never stops the batch.
type BulkResult struct {
	Total     int
	Updated   int
	Unchanged int
	Rejected  int
	Failed    int
	Errors    []BulkItemError
}

func (r *BulkResult) add(orderID string, outcome RefreshOutcome, err error) {
	r.Total++
	switch outcome {
	case OutcomeUpdated:
		r.Updated++
	case OutcomeUnchanged:
		r.Unchanged++
	case OutcomeRejected:
		r.Rejected++
	default:
		r.Failed++
	}
	if err != nil {
		r.Errors = append(r.Errors, BulkItemError{OrderID: orderID, Error: err.Error()})
	}
}

type trackingService struct {
	logger          *slog.Logger
	repo            TrackingRepo
	provider        TrackingProvider
	updater         StatusUpdater
	notifyOnRefresh bool
}

func NewTrackingService(logger *slog.Logger, repo TrackingRepo, provider TrackingProvider, updater StatusUpdater, notifyOnRefresh bool) *trackingService {
	return &trackingService{
		logger:          logger.With(slog.String("service", "tracking")),
		repo:            repo,
		provider:        provider,
		updater:         updater,
		notifyOnRefresh: notifyOnRefresh,
	}
}

// RefreshOrder polls the carrier for one order and applies the mapped status
// if the transition table allows it.
func (s *trackingService) RefreshOrder(ctx context.Context, orderID string) (RefreshResult, error) {
	order, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return RefreshResult{OrderID: orderID, Outcome: OutcomeFailed}, err
	}
	return s.refresh(ctx, order)
}

// HandleCarrierUpdate applies a status pushed by the carrier for a tracking
// number.
func (s *trackingService) HandleCarrierUpdate(ctx context.Context, trackingNumber, carrierStatus string) (RefreshResult, error) {
	order, err := s.repo.GetOrderByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return RefreshResult{Outcome: OutcomeFailed, CarrierStatus: carrierStatus}, err
	}
	return s.apply(ctx, order, carrierStatus)
}

func (s *trackingService) refresh(ctx context.Context, order entities.Order) (RefreshResult, error) {
	if order.TrackingNumber == "" {
		return RefreshResult{OrderID: order.ID, PreviousStatus: order.Status, Outcome: OutcomeFailed}, entities.ErrNoTrackingNumber
	}
	if order.Status.IsTerminal() {
		// nothing the carrier reports can move a closed order
		trackingRefreshes.WithLabelValues(string(OutcomeUnchanged)).Inc()
		return RefreshResult{OrderID: order.ID, PreviousStatus: order.Status, ProposedStatus: order.Status, Outcome: OutcomeUnchanged}, nil
	}

	carrierStatus, err := s.provider.GetTrackingStatus(ctx, order.TrackingNumber, order.CarrierService)
	if err != nil {
		trackingRefreshes.WithLabelValues(string(OutcomeFailed)).Inc()
		return RefreshResult{OrderID: order.ID, PreviousStatus: order.Status, Outcome: OutcomeFailed},
			fmt.Errorf("%w: %w", entities.ErrCarrierUnavailable, err)
	}

	return s.apply(ctx, order, carrierStatus)
}

func (s *trackingService) apply(ctx context.Context, order entities.Order, carrierStatus string) (RefreshResult, error) {
	proposed := entities.MapTrackingStatusToOrderStatus(carrierStatus)
	result := RefreshResult{
		OrderID:        order.ID,
		CarrierStatus:  carrierStatus,
		PreviousStatus: order.Status,
		ProposedStatus: proposed,
	}

	if proposed == order.Status {
		result.Outcome = OutcomeUnchanged
		trackingRefreshes.WithLabelValues(string(result.Outcome)).Inc()
		return result, nil
	}

	version := order.Version
	_, err := s.updater.UpdateStatus(ctx, order.ID, StatusUpdate{
		Status:          proposed,
		SendEmail:       s.notifyOnRefresh,
		ExpectedVersion: &version,
		Source:          entities.SourceCarrier,
	})

	switch {
	case err == nil:
		result.Outcome = OutcomeUpdated
	case errors.Is(err, entities.ErrInvalidTransition):
		// carrier is behind the stored status, keep ours
		result.Outcome = OutcomeRejected
		s.logger.InfoContext(ctx, "stale carrier status ignored",
			slog.String("order_id", order.ID),
			slog.String("carrier_status", carrierStatus),
			slog.String("current", string(order.Status)),
		)
		err = nil
	default:
		result.Outcome = OutcomeFailed
	}

	trackingRefreshes.WithLabelValues(string(result.Outcome)).Inc()
	return result, err
}

// RefreshAll refreshes every order still on its way, one at a time.
func (s *trackingService) RefreshAll(ctx context.Context) (BulkResult, error) {
	orders, err := s.repo.OrdersAwaitingDelivery(ctx)
	if err != nil {
		return BulkResult{}, fmt.Errorf("failed to list orders awaiting delivery: %w", err)
	}

	var result BulkResult
	for _, order := range orders {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		res, err := s.refresh(ctx, order)
		if err != nil {
			s.logger.ErrorContext(ctx, "tracking refresh failed", slog.String("order_id", order.ID), slog.Any("error", err))
		}
		result.add(order.ID, res.Outcome, err)
	}

	s.logger.InfoContext(ctx, "tracking refresh finished",
		slog.Int("total", result.Total),
		slog.Int("updated", result.Updated),
		slog.Int("unchanged", result.Unchanged),
		slog.Int("rejected", result.Rejected),
		slog.Int("failed", result.Failed),
	)
	return result, nil
}

// ImportTracking attaches tracking numbers and marks each order shipped.
func (s *trackingService) ImportTracking(ctx context.Context, items []TrackingImport) BulkResult {
	var result BulkResult
	for _, item := range items {
		_, err := s.updater.UpdateStatus(ctx, item.OrderID, StatusUpdate{
			Status:         entities.StatusShipped,
			SendEmail:      item.SendEmail,
			TrackingNumber: item.TrackingNumber,
			CarrierService: item.CarrierService,
			Source:         entities.SourceImport,
		})

		outcome := OutcomeUpdated
		switch {
		case errors.Is(err, entities.ErrInvalidTransition):
			outcome = OutcomeRejected
		case err != nil:
			outcome = OutcomeFailed
		}
		if err != nil {
			s.logger.WarnContext(ctx, "tracking import item failed", slog.String("order_id", item.OrderID), slog.Any("error", err))
		}
		result.add(item.OrderID, outcome, err)
	}
	return result
}
