package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"
	"github.com/SergeyBogomolovv/storefront-orders/pkg/trm"
	"github.com/SergeyBogomolovv/storefront-orders/pkg/utils"

	"github.com/google/uuid"
)

type OrderRepo interface {
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	LatestOrders(ctx context.Context, count int) ([]entities.Order, error)
	StatusHistory(ctx context.Context, orderID string) ([]entities.StatusChange, error)

	// SaveOrder returns false when an order for the same payment exists.
	SaveOrder(ctx context.Context, o entities.Order) (bool, error)
	SaveItems(ctx context.Context, orderID string, items []entities.OrderItem) error
	SaveStatusChange(ctx context.Context, change entities.StatusChange) error
}

type Cache interface {
	Get(key string) ([]byte, bool)
	// Set keeps a newer cached version in place and reports false.
	Set(key string, version int64, value []byte) bool
}

type CartPricer interface {
	PriceCart(ctx context.Context, cartID string) (CartPricing, error)
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	cache     Cache
	pricer    CartPricer
	retry     utils.RetryConfig
}

func NewOrderService(logger *slog.Logger, txManager trm.Manager, repo OrderRepo, cache Cache, pricer CartPricer) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		cache:     cache,
		pricer:    pricer,
		retry: utils.RetryConfig{
			InitialDelay: 100 * time.Millisecond,
			MaxAttempts:  5,
			Multiplier:   2,
		},
	}
}

// CreateOrder turns a paid cart into a pending order. Cart prices are
// resolved in decimal dollars and converted to cents once per line and once
// for the total.
func (s *orderService) CreateOrder(ctx context.Context, checkout entities.Checkout) (entities.Order, error) {
	pricing, err := s.pricer.PriceCart(ctx, checkout.CartID)
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to price cart: %w", err)
	}
	if len(pricing.Lines) == 0 {
		return entities.Order{}, entities.ErrEmptyCart
	}

	id := uuid.New()
	now := time.Now().UTC()
	order := entities.Order{
		ID:              id.String(),
		OrderNumber:     orderNumber(id),
		CustomerEmail:   checkout.CustomerEmail,
		PaymentIntentID: checkout.PaymentIntentID,
		Status:          entities.StatusPending,
		TotalCents:      entities.ToCents(pricing.Total) + checkout.ShippingCents,
		ShippingCents:   checkout.ShippingCents,
		OrderedAt:       now,
		UpdatedAt:       now,
		Items:           orderItems(pricing.Lines),
	}

	fn := func() error {
		return s.txManager.Do(ctx, func(ctx context.Context) error {
			created, err := s.repo.SaveOrder(ctx, order)
			if err != nil {
				return fmt.Errorf("failed to save order: %w", err)
			}
			if !created {
				return entities.ErrDuplicateCheckout
			}
			if err := s.repo.SaveItems(ctx, order.ID, order.Items); err != nil {
				return fmt.Errorf("failed to save items: %w", err)
			}
			change := entities.StatusChange{
				ID:        uuid.NewString(),
				OrderID:   order.ID,
				To:        entities.StatusPending,
				Source:    entities.SourceCheckout,
				CreatedAt: now,
			}
			if err := s.repo.SaveStatusChange(ctx, change); err != nil {
				return fmt.Errorf("failed to save status change: %w", err)
			}

			s.logger.Debug("order created", "order_id", order.ID, "cart_id", checkout.CartID)
			return nil
		})
	}

	if err := utils.Retry(ctx, s.retry, fn, entities.ErrDuplicateCheckout); err != nil {
		return entities.Order{}, err
	}
	return order, nil
}

func orderNumber(id uuid.UUID) string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:10])
}

func orderItems(lines []entities.PricedLine) []entities.OrderItem {
	items := make([]entities.OrderItem, 0, len(lines))
	for _, l := range lines {
		item := entities.OrderItem{
			CartItemID:     l.Line.Base().ID,
			Quantity:       l.Quantity(),
			UnitPriceCents: entities.ToCents(l.EffectivePrice),
		}
		switch line := l.Line.(type) {
		case entities.AdditionalPartLine:
			if len(line.PartIDs) == 1 {
				partID := line.PartIDs[0]
				item.PartID = &partID
			}
		case entities.FullProductLine:
			item.ProductID = line.ProductID
		}
		items = append(items, item)
	}
	return items
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	if data, ok := s.cache.Get(orderID); ok {
		var order entities.Order
		if err := order.Unmarshal(data); err != nil {
			s.logger.Error("failed to unmarshal order", slog.String("order_id", orderID), slog.Any("error", err))
			return entities.Order{}, errors.Join(entities.ErrInvalidOrder, err)
		}
		return order, nil
	}

	var order entities.Order
	fn := func() error {
		var err error
		order, err = s.repo.GetOrderByID(ctx, orderID)
		return err
	}
	if err := utils.Retry(ctx, s.retry, fn, entities.ErrOrderNotFound); err != nil {
		return entities.Order{}, err
	}

	s.setCache(order)
	return order, nil
}

func (s *orderService) StatusHistory(ctx context.Context, orderID string) ([]entities.StatusChange, error) {
	if _, err := s.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.StatusHistory(ctx, orderID)
}

// WarmUpCache loads the most recent orders into the cache.
func (s *orderService) WarmUpCache(ctx context.Context, count int) error {
	orders, err := s.repo.LatestOrders(ctx, count)
	if err != nil {
		return fmt.Errorf("failed to load latest orders: %w", err)
	}
	for _, order := range orders {
		s.setCache(order)
	}
	s.logger.Info("cache warmed up", slog.Int("orders", len(orders)))
	return nil
}

// setCache stores order under its id and version. A read that loaded the
// row before a status change committed loses to the committed version.
func (s *orderService) setCache(order entities.Order) {
	data, err := order.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal order", slog.String("order_id", order.ID), slog.Any("error", err))
		return
	}
	if !s.cache.Set(order.ID, int64(order.Version), data) {
		s.logger.Debug("newer order version already cached", slog.String("order_id", order.ID), slog.Int("version", order.Version))
	}
}
