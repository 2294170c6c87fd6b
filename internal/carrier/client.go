package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SergeyBogomolovv/storefront-orders/internal/config"
	"github.com/SergeyBogomolovv/storefront-orders/pkg/utils"
)

// ErrRejected is returned when the carrier API refuses a request; such
// requests are not retried.
var ErrRejected = errors.New("carrier rejected request")

type trackerRequest struct {
	Tracker struct {
		TrackingCode string `json:"tracking_code"`
		Carrier      string `json:"carrier,omitempty"`
	} `json:"tracker"`
}

type trackerResponse struct {
	ID           string `json:"id"`
	TrackingCode string `json:"tracking_code"`
	Status       string `json:"status"`
	Carrier      string `json:"carrier"`
}

type client struct {
	logger  *slog.Logger
	http    *http.Client
	baseURL string
	apiKey  string
	retry   utils.RetryConfig
}

// NewClient returns a tracking client for an EasyPost compatible trackers API.
func NewClient(logger *slog.Logger, cfg config.Carrier) *client {
	return &client{
		logger:  logger.With(slog.String("component", "carrier")),
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		retry: utils.RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Multiplier:   2,
		},
	}
}

// GetTrackingStatus returns the raw carrier status string of a shipment.
func (c *client) GetTrackingStatus(ctx context.Context, trackingNumber, carrier string) (string, error) {
	var req trackerRequest
	req.Tracker.TrackingCode = trackingNumber
	req.Tracker.Carrier = carrier

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode tracker request: %w", err)
	}

	var res trackerResponse
	fn := func() error {
		var err error
		res, err = c.createTracker(ctx, body)
		return err
	}
	if err := utils.Retry(ctx, c.retry, fn, ErrRejected); err != nil {
		return "", err
	}

	c.logger.DebugContext(ctx, "tracking status fetched",
		slog.String("tracking_number", trackingNumber),
		slog.String("status", res.Status),
	)
	return res.Status, nil
}

func (c *client) createTracker(ctx context.Context, body []byte) (trackerResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/trackers", bytes.NewReader(body))
	if err != nil {
		return trackerResponse{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.apiKey, "")

	resp, err := c.http.Do(req)
	if err != nil {
		return trackerResponse{}, fmt.Errorf("failed to call carrier: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusTooManyRequests:
		return trackerResponse{}, fmt.Errorf("carrier unavailable: status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return trackerResponse{}, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var res trackerResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return trackerResponse{}, fmt.Errorf("failed to decode tracker: %w", err)
	}
	return res, nil
}
