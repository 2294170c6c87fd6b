package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"
	"github.com/SergeyBogomolovv/storefront-orders/internal/service"
	"github.com/SergeyBogomolovv/storefront-orders/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderReader interface {
	GetOrderByID(ctx context.Context, orderID string) (entities.Order, error)
	StatusHistory(ctx context.Context, orderID string) ([]entities.StatusChange, error)
}

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID string, upd service.StatusUpdate) (service.StatusUpdateResult, error)
}

type Tracker interface {
	RefreshOrder(ctx context.Context, orderID string) (service.RefreshResult, error)
	RefreshAll(ctx context.Context) (service.BulkResult, error)
	ImportTracking(ctx context.Context, items []service.TrackingImport) service.BulkResult
}

type CartPricer interface {
	PriceCart(ctx context.Context, cartID string) (service.CartPricing, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	orders   OrderReader
	status   StatusUpdater
	tracking Tracker
	pricing  CartPricer
}

func NewHTTPHandler(logger *slog.Logger, orders OrderReader, status StatusUpdater, tracking Tracker, pricing CartPricer) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		orders:   orders,
		status:   status,
		tracking: tracking,
		pricing:  pricing,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/tracking/refresh", h.RefreshAllTracking)
		r.Post("/tracking/import", h.ImportTracking)

		r.Get("/{order_id}", h.GetOrderByID)
		r.Get("/{order_id}/history", h.GetStatusHistory)
		r.Put("/{order_id}/status", h.UpdateStatus)
		r.Post("/{order_id}/tracking/refresh", h.RefreshTracking)
	})
	r.Get("/carts/{cart_id}/pricing", h.GetCartPricing)
}

// UpdateStatus moves an order to a new status.
// @Summary      Update order status
// @Description  Validates the transition unless force is set, stores tracking data and optionally notifies the customer
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order_id  path      string               true  "Order ID"
// @Param        request   body      UpdateStatusRequest  true  "Status change"
// @Success      200  {object}  UpdateStatusResponse
// @Failure      400  {object}  utils.ValidationErrorResponse "Validation error"
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      409  {object}  TransitionErrorResponse "Transition not allowed"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /orders/{order_id}/status [put]
func (h *HTTPHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	var req UpdateStatusRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	res, err := h.status.UpdateStatus(ctx, orderID, req.ToUpdate())
	if err != nil {
		statusRequestTotal.WithLabelValues("error").Inc()
		h.writeServiceError(ctx, w, err, "failed to update order status", slog.String("order_id", orderID))
		return
	}

	statusRequestTotal.WithLabelValues("ok").Inc()
	utils.WriteJSON(w, UpdateStatusResultToJSON(res), http.StatusOK)
}

// GetOrderByID returns an order.
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        order_id  path      string  true  "Order ID"
// @Success      200  {object}  Order
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /orders/{order_id} [get]
func (h *HTTPHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	order, err := h.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to get order", slog.String("order_id", orderID))
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// GetStatusHistory returns the status changes of an order, oldest first.
// @Summary      Get order status history
// @Tags         orders
// @Produce      json
// @Param        order_id  path      string  true  "Order ID"
// @Success      200  {array}   StatusChange
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /orders/{order_id}/history [get]
func (h *HTTPHandler) GetStatusHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	changes, err := h.orders.StatusHistory(ctx, orderID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to get status history", slog.String("order_id", orderID))
		return
	}

	utils.WriteJSON(w, StatusHistoryToJSON(changes), http.StatusOK)
}

// RefreshTracking polls the carrier for one order.
// @Summary      Refresh order tracking
// @Tags         tracking
// @Produce      json
// @Param        order_id  path      string  true  "Order ID"
// @Success      200  {object}  RefreshResult
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      422  {object}  utils.ErrorResponse "Order has no tracking number"
// @Failure      502  {object}  utils.ErrorResponse "Carrier unavailable"
// @Router       /orders/{order_id}/tracking/refresh [post]
func (h *HTTPHandler) RefreshTracking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	res, err := h.tracking.RefreshOrder(ctx, orderID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to refresh tracking", slog.String("order_id", orderID))
		return
	}

	utils.WriteJSON(w, RefreshResultToJSON(res), http.StatusOK)
}

// RefreshAllTracking polls the carrier for every order still on its way.
// @Summary      Refresh all tracking
// @Tags         tracking
// @Produce      json
// @Success      200  {object}  BulkResult
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /orders/tracking/refresh [post]
func (h *HTTPHandler) RefreshAllTracking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.tracking.RefreshAll(ctx)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to refresh tracking")
		return
	}

	utils.WriteJSON(w, BulkResultToJSON(res), http.StatusOK)
}

// ImportTracking attaches tracking numbers and ships the orders.
// @Summary      Import tracking numbers
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Param        request  body      ImportTrackingRequest  true  "Tracking numbers"
// @Success      200  {object}  BulkResult
// @Failure      400  {object}  utils.ValidationErrorResponse "Validation error"
// @Router       /orders/tracking/import [post]
func (h *HTTPHandler) ImportTracking(w http.ResponseWriter, r *http.Request) {
	var req ImportTrackingRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	res := h.tracking.ImportTracking(r.Context(), req.ToImports())
	utils.WriteJSON(w, BulkResultToJSON(res), http.StatusOK)
}

// GetCartPricing resolves the current prices of a cart.
// @Summary      Get cart pricing
// @Tags         carts
// @Produce      json
// @Param        cart_id  path      string  true  "Cart ID"
// @Success      200  {object}  CartPricing
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /carts/{cart_id}/pricing [get]
func (h *HTTPHandler) GetCartPricing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cartID := chi.URLParam(r, "cart_id")

	pricing, err := h.pricing.PriceCart(ctx, cartID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to price cart", slog.String("cart_id", cartID))
		return
	}

	utils.WriteJSON(w, CartPricingToJSON(pricing), http.StatusOK)
}

func (h *HTTPHandler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msg string, attrs ...any) {
	var transitionErr *entities.TransitionError
	switch {
	case errors.As(err, &transitionErr):
		utils.WriteJSON(w, TransitionErrorToJSON(transitionErr), http.StatusConflict)
	case errors.Is(err, entities.ErrVersionConflict):
		utils.WriteError(w, "order was modified concurrently", http.StatusConflict)
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrUnknownStatus):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, entities.ErrNoTrackingNumber):
		utils.WriteError(w, "order has no tracking number", http.StatusUnprocessableEntity)
	case errors.Is(err, entities.ErrCarrierUnavailable):
		h.logger.WarnContext(ctx, msg, append(attrs, slog.Any("error", err))...)
		utils.WriteError(w, "carrier unavailable", http.StatusBadGateway)
	default:
		h.logger.ErrorContext(ctx, msg, append(attrs, slog.Any("error", err))...)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
