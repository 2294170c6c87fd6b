package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

func (r *postgresRepo) GetOrderByID(ctx context.Context, orderID string) (entities.Order, error) {
	return r.getOrder(ctx, r.qb.Select(orderColumns...).From("orders").Where(sq.Eq{"id": orderID}))
}

// GetOrderForUpdate must run inside a transaction; the row stays locked until
// it ends.
func (r *postgresRepo) GetOrderForUpdate(ctx context.Context, orderID string) (entities.Order, error) {
	return r.getOrder(ctx, r.qb.Select(orderColumns...).From("orders").
		Where(sq.Eq{"id": orderID}).
		Suffix("FOR UPDATE"))
}

func (r *postgresRepo) GetOrderByTrackingNumber(ctx context.Context, trackingNumber string) (entities.Order, error) {
	return r.getOrder(ctx, r.qb.Select(orderColumns...).From("orders").
		Where(sq.Eq{"tracking_number": trackingNumber}).
		OrderBy("ordered_at DESC").
		Limit(1))
}

func (r *postgresRepo) getOrder(ctx context.Context, q sq.SelectBuilder) (entities.Order, error) {
	query, args := q.MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.orderItems(ctx, order.ID)
	if err != nil {
		return entities.Order{}, err
	}
	return OrderToEntity(order, items[order.ID]), nil
}

func (r *postgresRepo) LatestOrders(ctx context.Context, count int) ([]entities.Order, error) {
	return r.listOrders(ctx, r.qb.Select(orderColumns...).From("orders").
		OrderBy("ordered_at DESC").
		Limit(uint64(count)))
}

func (r *postgresRepo) OrdersAwaitingDelivery(ctx context.Context) ([]entities.Order, error) {
	return r.listOrders(ctx, r.qb.Select(orderColumns...).From("orders").
		Where(sq.Eq{"order_status": []string{
			string(entities.StatusShipped),
			string(entities.StatusInTransit),
			string(entities.StatusOutForDelivery),
		}}).
		Where(sq.NotEq{"tracking_number": nil}).
		Where(sq.NotEq{"tracking_number": ""}).
		OrderBy("shipped_at ASC"))
}

func (r *postgresRepo) listOrders(ctx context.Context, q sq.SelectBuilder) ([]entities.Order, error) {
	query, args := q.MustSql()

	var orders []Order
	if err := r.selectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}
	if len(orders) == 0 {
		return []entities.Order{}, nil
	}

	ids := make([]string, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}
	items, err := r.orderItems(ctx, ids...)
	if err != nil {
		return nil, err
	}

	result := make([]entities.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, OrderToEntity(order, items[order.ID]))
	}
	return result, nil
}

func (r *postgresRepo) orderItems(ctx context.Context, orderIDs ...string) (map[string][]OrderItem, error) {
	query, args := r.qb.Select(
		"order_id", "cart_item_id", "product_id", "part_id", "quantity", "unit_price_cents").
		From("order_items").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("cart_item_id").
		MustSql()

	var items []OrderItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select order items: %w", err)
	}

	byOrder := make(map[string][]OrderItem, len(orderIDs))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	return byOrder, nil
}

// SaveOrder reports false when an order for the same payment intent already
// exists.
func (r *postgresRepo) SaveOrder(ctx context.Context, o entities.Order) (bool, error) {
	query, args := r.qb.Insert("orders").
		Columns(orderColumns...).
		Values(
			o.ID, o.OrderNumber, o.CustomerEmail, o.PaymentIntentID, string(o.Status),
			nullString(o.TrackingNumber), nullString(o.CarrierService), o.TotalCents, o.ShippingCents,
			o.OrderedAt, o.ShippedAt, o.UpdatedAt, o.Version,
		).
		Suffix("ON CONFLICT (payment_intent_id) DO NOTHING").
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to save order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

func (r *postgresRepo) SaveItems(ctx context.Context, orderID string, items []entities.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.qb.Insert("order_items").
		Columns("order_id", "cart_item_id", "product_id", "part_id", "quantity", "unit_price_cents")

	for _, it := range items {
		q = q.Values(orderID, it.CartItemID, nullInt64(it.ProductID), nullInt64(it.PartID), it.Quantity, it.UnitPriceCents)
	}

	query, args := q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save items: %w", err)
	}
	return nil
}

// UpdateOrderStatus writes the patch only when the row still has the given
// version and bumps it.
func (r *postgresRepo) UpdateOrderStatus(ctx context.Context, orderID string, version int, patch entities.StatusPatch) error {
	q := r.qb.Update("orders").
		Set("order_status", string(patch.Status)).
		Set("updated_at", patch.UpdatedAt).
		Set("version", sq.Expr("version + 1")).
		Where(sq.Eq{"id": orderID, "version": version})

	if patch.TrackingNumber != nil {
		q = q.Set("tracking_number", *patch.TrackingNumber)
	}
	if patch.CarrierService != nil {
		q = q.Set("carrier_service", *patch.CarrierService)
	}
	if patch.ShippedAt != nil {
		q = q.Set("shipped_at", *patch.ShippedAt)
	}

	query, args := q.MustSql()
	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return entities.ErrVersionConflict
	}
	return nil
}

func (r *postgresRepo) SaveStatusChange(ctx context.Context, c entities.StatusChange) error {
	query, args := r.qb.Insert("order_status_history").
		Columns("id", "order_id", "from_status", "to_status", "forced", "source", "created_at").
		Values(c.ID, c.OrderID, nullString(string(c.From)), string(c.To), c.Forced, string(c.Source), c.CreatedAt).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save status change: %w", err)
	}
	return nil
}

func (r *postgresRepo) StatusHistory(ctx context.Context, orderID string) ([]entities.StatusChange, error) {
	query, args := r.qb.Select("id", "order_id", "from_status", "to_status", "forced", "source", "created_at").
		From("order_status_history").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("created_at ASC").
		MustSql()

	var changes []StatusChange
	if err := r.selectContext(ctx, &changes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select status history: %w", err)
	}

	result := make([]entities.StatusChange, 0, len(changes))
	for _, c := range changes {
		result = append(result, StatusChangeToEntity(c))
	}
	return result, nil
}
