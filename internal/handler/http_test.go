package handler_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SergeyBogomolovv/storefront-orders/internal/entities"
	"github.com/SergeyBogomolovv/storefront-orders/internal/handler"
	mocks "github.com/SergeyBogomolovv/storefront-orders/internal/handler/mocks"
	"github.com/SergeyBogomolovv/storefront-orders/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type handlerMocks struct {
	orders   *mocks.MockOrderReader
	status   *mocks.MockStatusUpdater
	tracking *mocks.MockTracker
	pricing  *mocks.MockCartPricer
}

func setup(t *testing.T) (handlerMocks, chi.Router) {
	m := handlerMocks{
		orders:   mocks.NewMockOrderReader(t),
		status:   mocks.NewMockStatusUpdater(t),
		tracking: mocks.NewMockTracker(t),
		pricing:  mocks.NewMockCartPricer(t),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewHTTPHandler(logger, m.orders, m.status, m.tracking, m.pricing)

	r := chi.NewRouter()
	h.Init(r)
	return m, r
}

func do(t *testing.T, r http.Handler, method, target, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	res := rr.Result()
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(data)
}

func TestHTTPHandler_UpdateStatus(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		mockBehavior func(m handlerMocks)
		wantStatus   int
		wantBody     string
	}{
		{
			name: "success",
			body: `{"order_status":"shipped","send_email":true,"tracking_number":"1Z999","carrier_service":"UPS"}`,
			mockBehavior: func(m handlerMocks) {
				m.status.On("UpdateStatus", mock.Anything, "o1", service.StatusUpdate{
					Status:         entities.StatusShipped,
					SendEmail:      true,
					TrackingNumber: "1Z999",
					CarrierService: "UPS",
					Source:         entities.SourceAdmin,
				}).Return(service.StatusUpdateResult{
					OrderID:        "o1",
					PreviousStatus: entities.StatusPackaged,
					NewStatus:      entities.StatusShipped,
					TrackingAdded:  true,
					EmailSent:      true,
					Version:        4,
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"previous_status":"packaged","new_status":"shipped","tracking_added":true,"email_sent":true`,
		},
		{
			name: "invalid transition",
			body: `{"order_status":"in_transit"}`,
			mockBehavior: func(m handlerMocks) {
				m.status.On("UpdateStatus", mock.Anything, "o1", mock.Anything).
					Return(service.StatusUpdateResult{}, &entities.TransitionError{From: entities.StatusDelivered, To: entities.StatusInTransit}).Once()
			},
			wantStatus: http.StatusConflict,
			wantBody:   `"current_status":"delivered","requested_status":"in_transit","allowed":["returned"]`,
		},
		{
			name: "version conflict",
			body: `{"order_status":"printing","version":2}`,
			mockBehavior: func(m handlerMocks) {
				m.status.On("UpdateStatus", mock.Anything, "o1", mock.MatchedBy(func(u service.StatusUpdate) bool {
					return u.ExpectedVersion != nil && *u.ExpectedVersion == 2
				})).Return(service.StatusUpdateResult{}, entities.ErrVersionConflict).Once()
			},
			wantStatus: http.StatusConflict,
			wantBody:   `"order was modified concurrently"`,
		},
		{
			name: "unknown status",
			body: `{"order_status":"lost"}`,
			mockBehavior: func(m handlerMocks) {
				m.status.On("UpdateStatus", mock.Anything, "o1", mock.Anything).
					Return(service.StatusUpdateResult{}, entities.ErrUnknownStatus).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"unknown order status"`,
		},
		{
			name: "not found",
			body: `{"order_status":"paid"}`,
			mockBehavior: func(m handlerMocks) {
				m.status.On("UpdateStatus", mock.Anything, "o1", mock.Anything).
					Return(service.StatusUpdateResult{}, entities.ErrOrderNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `"order not found"`,
		},
		{
			name:         "missing status",
			body:         `{"send_email":true}`,
			mockBehavior: func(handlerMocks) {},
			wantStatus:   http.StatusBadRequest,
			wantBody:     `"OrderStatus":"required"`,
		},
		{
			name:         "malformed body",
			body:         `{`,
			mockBehavior: func(handlerMocks) {},
			wantStatus:   http.StatusBadRequest,
			wantBody:     `"invalid request body"`,
		},
		{
			name: "internal error",
			body: `{"order_status":"paid"}`,
			mockBehavior: func(m handlerMocks) {
				m.status.On("UpdateStatus", mock.Anything, "o1", mock.Anything).
					Return(service.StatusUpdateResult{}, errors.New("db error")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"internal server error"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, r := setup(t)
			tc.mockBehavior(m)

			status, body := do(t, r, http.MethodPut, "/orders/o1/status", tc.body)

			assert.Equal(t, tc.wantStatus, status)
			assert.Contains(t, body, tc.wantBody)
		})
	}
}

func TestHTTPHandler_GetOrderByID(t *testing.T) {
	validOrder := entities.Order{
		ID:            "o1",
		OrderNumber:   "ORD-ABC",
		Status:        entities.StatusPaid,
		TotalCents:    6598,
		ShippingCents: 500,
		Items:         []entities.OrderItem{{CartItemID: 1, Quantity: 2, UnitPriceCents: 1299}},
	}

	testCases := []struct {
		name         string
		mockBehavior func(m handlerMocks)
		wantStatus   int
		wantBody     string
	}{
		{
			name: "success",
			mockBehavior: func(m handlerMocks) {
				m.orders.On("GetOrderByID", mock.Anything, "o1").Return(validOrder, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"total":"65.98"`,
		},
		{
			name: "not found",
			mockBehavior: func(m handlerMocks) {
				m.orders.On("GetOrderByID", mock.Anything, "o1").Return(entities.Order{}, entities.ErrOrderNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `"order not found"`,
		},
		{
			name: "internal error",
			mockBehavior: func(m handlerMocks) {
				m.orders.On("GetOrderByID", mock.Anything, "o1").Return(entities.Order{}, errors.New("db error")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"internal server error"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, r := setup(t)
			tc.mockBehavior(m)

			status, body := do(t, r, http.MethodGet, "/orders/o1", "")

			assert.Equal(t, tc.wantStatus, status)
			assert.Contains(t, body, tc.wantBody)

			if tc.wantStatus == http.StatusOK {
				var resp handler.Order
				require.NoError(t, json.Unmarshal([]byte(body), &resp))
				assert.Equal(t, "o1", resp.ID)
				assert.Equal(t, "paid", resp.Status)
				assert.Equal(t, "5.00", resp.Shipping)
				require.Len(t, resp.Items, 1)
				assert.Equal(t, "12.99", resp.Items[0].UnitPrice)
			}
		})
	}
}

func TestHTTPHandler_GetStatusHistory(t *testing.T) {
	m, r := setup(t)
	m.orders.On("StatusHistory", mock.Anything, "o1").Return([]entities.StatusChange{
		{To: entities.StatusPending, Source: entities.SourceCheckout},
		{From: entities.StatusPending, To: entities.StatusPaid, Source: entities.SourceAdmin},
	}, nil).Once()

	status, body := do(t, r, http.MethodGet, "/orders/o1/history", "")

	assert.Equal(t, http.StatusOK, status)
	var resp []handler.StatusChange
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp, 2)
	assert.Empty(t, resp[0].From)
	assert.Equal(t, "paid", resp[1].To)
}

func TestHTTPHandler_RefreshTracking(t *testing.T) {
	testCases := []struct {
		name         string
		mockBehavior func(m handlerMocks)
		wantStatus   int
		wantBody     string
	}{
		{
			name: "updated",
			mockBehavior: func(m handlerMocks) {
				m.tracking.On("RefreshOrder", mock.Anything, "o1").Return(service.RefreshResult{
					OrderID: "o1", CarrierStatus: "in_transit", PreviousStatus: entities.StatusShipped,
					ProposedStatus: entities.StatusInTransit, Outcome: service.OutcomeUpdated,
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"outcome":"updated"`,
		},
		{
			name: "no tracking number",
			mockBehavior: func(m handlerMocks) {
				m.tracking.On("RefreshOrder", mock.Anything, "o1").
					Return(service.RefreshResult{Outcome: service.OutcomeFailed}, entities.ErrNoTrackingNumber).Once()
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `"order has no tracking number"`,
		},
		{
			name: "carrier down",
			mockBehavior: func(m handlerMocks) {
				m.tracking.On("RefreshOrder", mock.Anything, "o1").
					Return(service.RefreshResult{Outcome: service.OutcomeFailed}, entities.ErrCarrierUnavailable).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   `"carrier unavailable"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, r := setup(t)
			tc.mockBehavior(m)

			status, body := do(t, r, http.MethodPost, "/orders/o1/tracking/refresh", "")

			assert.Equal(t, tc.wantStatus, status)
			assert.Contains(t, body, tc.wantBody)
		})
	}
}

func TestHTTPHandler_RefreshAllTracking(t *testing.T) {
	m, r := setup(t)
	m.tracking.On("RefreshAll", mock.Anything).Return(service.BulkResult{
		Total: 3, Updated: 1, Unchanged: 1, Failed: 1,
		Errors: []service.BulkItemError{{OrderID: "c", Error: "timeout"}},
	}, nil).Once()

	status, body := do(t, r, http.MethodPost, "/orders/tracking/refresh", "")

	assert.Equal(t, http.StatusOK, status)
	var resp handler.BulkResult
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, []handler.BulkItemError{{OrderID: "c", Error: "timeout"}}, resp.Errors)
}

func TestHTTPHandler_ImportTracking(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		mockBehavior func(m handlerMocks)
		wantStatus   int
		wantBody     string
	}{
		{
			name: "success",
			body: `{"items":[{"order_id":"a","tracking_number":"A1","carrier_service":"UPS","send_email":true}]}`,
			mockBehavior: func(m handlerMocks) {
				m.tracking.On("ImportTracking", mock.Anything, []service.TrackingImport{
					{OrderID: "a", TrackingNumber: "A1", CarrierService: "UPS", SendEmail: true},
				}).Return(service.BulkResult{Total: 1, Updated: 1}).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"updated":1`,
		},
		{
			name:         "empty items",
			body:         `{"items":[]}`,
			mockBehavior: func(handlerMocks) {},
			wantStatus:   http.StatusBadRequest,
			wantBody:     `"Items":"min=1"`,
		},
		{
			name:         "missing tracking number",
			body:         `{"items":[{"order_id":"a"}]}`,
			mockBehavior: func(handlerMocks) {},
			wantStatus:   http.StatusBadRequest,
			wantBody:     `"Items[0].TrackingNumber":"required"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, r := setup(t)
			tc.mockBehavior(m)

			status, body := do(t, r, http.MethodPost, "/orders/tracking/import", tc.body)

			assert.Equal(t, tc.wantStatus, status)
			assert.Contains(t, body, tc.wantBody)
		})
	}
}

func TestHTTPHandler_GetCartPricing(t *testing.T) {
	m, r := setup(t)
	m.pricing.On("PriceCart", mock.Anything, "cart-1").Return(service.CartPricing{
		CartID: "cart-1",
		Lines: []entities.PricedLine{
			{
				Line:           entities.AdditionalPartLine{LineBase: entities.LineBase{ID: 1, Quantity: 2}, PartIDs: []int64{7}},
				EffectivePrice: decimal.RequireFromString("12.99"),
			},
		},
		Total: decimal.RequireFromString("25.98"),
	}, nil).Once()

	status, body := do(t, r, http.MethodGet, "/carts/cart-1/pricing", "")

	assert.Equal(t, http.StatusOK, status)
	var resp handler.CartPricing
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "25.98", resp.Total)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "12.99", resp.Lines[0].EffectivePrice)
	assert.Equal(t, "25.98", resp.Lines[0].LineTotal)
}
