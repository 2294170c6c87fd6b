package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"

	sq "github.com/Masterminds/squirrel"
)

func (r *postgresRepo) GetPart(ctx context.Context, partID int64) (entities.Part, error) {
	query, args := r.qb.Select("id", "name", "price", "discounted_price").
		From("parts").
		Where(sq.Eq{"id": partID}).
		MustSql()

	var part Part
	err := r.getContext(ctx, &part, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Part{}, entities.ErrPartNotFound
	}
	if err != nil {
		return entities.Part{}, fmt.Errorf("failed to get part: %w", err)
	}
	return PartToEntity(part), nil
}

func (r *postgresRepo) GetProduct(ctx context.Context, productID int64) (entities.Product, error) {
	query, args := r.qb.Select("id", "name", "default_price", "on_sale", "discounted_price").
		From("products").
		Where(sq.Eq{"id": productID}).
		MustSql()

	var product Product
	err := r.getContext(ctx, &product, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Product{}, entities.ErrProductNotFound
	}
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return ProductToEntity(product), nil
}

// ProductPromotions returns all promotions linked to a product. Publication
// and date bounds are checked by the caller.
func (r *postgresRepo) ProductPromotions(ctx context.Context, productID int64) ([]entities.Promotion, error) {
	query, args := r.qb.Select(
		"p.id", "p.name",
		"to_char(p.start_date, 'YYYY-MM-DD') AS start_date",
		"to_char(p.end_date, 'YYYY-MM-DD') AS end_date",
		"p.discount_percentage", "p.discount_amount", "p.published").
		From("promotions p").
		Join("product_promotions pp ON pp.promotion_id = p.id").
		Where(sq.Eq{"pp.product_id": productID}).
		OrderBy("p.id").
		MustSql()

	var rows []Promotion
	if err := r.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select promotions: %w", err)
	}

	promotions := make([]entities.Promotion, 0, len(rows))
	for _, row := range rows {
		promo, err := PromotionToEntity(row)
		if err != nil {
			return nil, fmt.Errorf("promotion %d: %w", row.ID, err)
		}
		promotions = append(promotions, promo)
	}
	return promotions, nil
}
