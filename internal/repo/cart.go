package repo

import (
	"context"
	"fmt"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

func (r *postgresRepo) CartLines(ctx context.Context, cartID string) ([]entities.CartLine, error) {
	query, args := r.qb.Select(
		"id", "cart_id", "product_id", "quantity", "effective_price", "base_price", "is_additional_part").
		From("cart_items").
		Where(sq.Eq{"cart_id": cartID}).
		OrderBy("id").
		MustSql()

	var items []CartItem
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select cart items: %w", err)
	}
	if len(items) == 0 {
		return []entities.CartLine{}, nil
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	query, args = r.qb.Select("cart_item_id", "part_id").
		From("cart_item_parts").
		Where(sq.Eq{"cart_item_id": ids}).
		OrderBy("cart_item_id", "part_id").
		MustSql()

	var parts []CartItemPart
	if err := r.selectContext(ctx, &parts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select cart item parts: %w", err)
	}
	partsMap := make(map[int64][]int64, len(items))
	for _, p := range parts {
		partsMap[p.CartItemID] = append(partsMap[p.CartItemID], p.PartID)
	}

	lines := make([]entities.CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartItemToEntity(item, partsMap[item.ID]))
	}
	return lines, nil
}
