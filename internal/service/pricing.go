package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"

	"github.com/shopspring/decimal"
)

type PartRepo interface {
	GetPart(ctx context.Context, partID int64) (entities.Part, error)
}

type ProductRepo interface {
	GetProduct(ctx context.Context, productID int64) (entities.Product, error)
}

type PromotionRepo interface {
	// ProductPromotions returns every promotion linked to a product,
	// published or not. Activity is decided by entities.FilterActivePromotions.
	ProductPromotions(ctx context.Context, productID int64) ([]entities.Promotion, error)
}

type CartRepo interface {
	CartLines(ctx context.Context, cartID string) ([]entities.CartLine, error)
}

type CartPricing struct {
	CartID string
	Lines  []entities.PricedLine
	Total  decimal.Decimal
}

type pricingService struct {
	logger     *slog.Logger
	parts      PartRepo
	products   ProductRepo
	promotions PromotionRepo
	carts      CartRepo
	now        func() time.Time
}

func NewPricingService(logger *slog.Logger, parts PartRepo, products ProductRepo, promotions PromotionRepo, carts CartRepo) *pricingService {
	return &pricingService{
		logger:     logger.With(slog.String("service", "pricing")),
		parts:      parts,
		products:   products,
		promotions: promotions,
		carts:      carts,
		now:        time.Now,
	}
}

// WithClock replaces the time source used to pick active promotions.
func (s *pricingService) WithClock(now func() time.Time) *pricingService {
	s.now = now
	return s
}

// EffectivePrice resolves the current unit price of a cart line. It never
// fails: when a referenced record cannot be loaded the stored price is used.
func (s *pricingService) EffectivePrice(ctx context.Context, line entities.CartLine) entities.PricedLine {
	switch l := line.(type) {
	case entities.AdditionalPartLine:
		return s.partLinePrice(ctx, l)
	case entities.FullProductLine:
		return s.productLinePrice(ctx, l)
	default:
		return s.fallback(ctx, line, "unsupported_line")
	}
}

func (s *pricingService) partLinePrice(ctx context.Context, line entities.AdditionalPartLine) entities.PricedLine {
	if len(line.PartIDs) != 1 {
		return s.fallback(ctx, line, "malformed_part_line")
	}

	part, err := s.parts.GetPart(ctx, line.PartIDs[0])
	if err != nil {
		s.logger.DebugContext(ctx, "part lookup failed", slog.Int64("part_id", line.PartIDs[0]), slog.Any("error", err))
		return s.fallback(ctx, line, "part_unresolved")
	}

	return entities.PricedLine{Line: line, EffectivePrice: entities.PartPrice(part)}
}

func (s *pricingService) productLinePrice(ctx context.Context, line entities.FullProductLine) entities.PricedLine {
	if line.ProductID == nil {
		return s.fallback(ctx, line, "missing_product")
	}

	product, err := s.products.GetProduct(ctx, *line.ProductID)
	if err != nil {
		s.logger.DebugContext(ctx, "product lookup failed", slog.Int64("product_id", *line.ProductID), slog.Any("error", err))
		return s.fallback(ctx, line, "product_unresolved")
	}

	promotions, err := s.promotions.ProductPromotions(ctx, product.ID)
	if err != nil {
		s.logger.DebugContext(ctx, "promotion lookup failed", slog.Int64("product_id", product.ID), slog.Any("error", err))
		return s.fallback(ctx, line, "promotion_unresolved")
	}

	return entities.PricedLine{Line: line, EffectivePrice: s.ProductPriceWithPromotions(product, promotions)}
}

// ProductPriceWithPromotions prices a product from its loaded promotions,
// applying only those active today.
func (s *pricingService) ProductPriceWithPromotions(product entities.Product, promotions []entities.Promotion) decimal.Decimal {
	return entities.ProductPrice(product, entities.FilterActivePromotions(promotions, entities.DateOf(s.now())))
}

func (s *pricingService) fallback(ctx context.Context, line entities.CartLine, reason string) entities.PricedLine {
	pricingFallbacks.WithLabelValues(reason).Inc()
	s.logger.DebugContext(ctx, "using stored price", slog.Int64("line_id", line.Base().ID), slog.String("reason", reason))
	return entities.PricedLine{
		Line:           line,
		EffectivePrice: entities.RoundMoney(line.Base().StoredPrice()),
		Fallback:       true,
	}
}

// PriceCart prices every line of a cart and totals it.
func (s *pricingService) PriceCart(ctx context.Context, cartID string) (CartPricing, error) {
	lines, err := s.carts.CartLines(ctx, cartID)
	if err != nil {
		return CartPricing{}, err
	}

	priced := make([]entities.PricedLine, 0, len(lines))
	for _, line := range lines {
		priced = append(priced, s.EffectivePrice(ctx, line))
	}

	return CartPricing{
		CartID: cartID,
		Lines:  priced,
		Total:  entities.CalculateCartTotal(priced),
	}, nil
}
