// Package steadfast is a client for the Steadfast courier HTTP API. The
// courier is treated as an opaque collaborator: callers hand it a
// consignment request and get back a tracking identifier or a typed error.
package steadfast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the production Steadfast API endpoint.
const DefaultBaseURL = "https://portal.packzy.com/api/v1"

// ErrDisabled is returned when API credentials are not configured. The
// integration degrades to a no-op; order creation must never depend on it.
var ErrDisabled = errors.New("steadfast integration is not configured")

// ErrorKind classifies courier failures.
type ErrorKind string

const (
	// KindNetwork covers transport failures and timeouts; worth retrying.
	KindNetwork ErrorKind = "network"
	// KindRejected covers requests the courier refused (bad payload,
	// invalid phone, 4xx responses).
	KindRejected ErrorKind = "rejected"
	// KindAuthFailure covers credential problems (401/403).
	KindAuthFailure ErrorKind = "auth_failure"
)

// APIError is a classified courier failure.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("steadfast: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("steadfast: %s: %s", e.Kind, e.Message)
}

// Config holds courier credentials and the API endpoint.
type Config struct {
	BaseURL   string
	APIKey    string
	SecretKey string
}

// Client talks to the Steadfast API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new Steadfast client. Leaving the keys empty is
// allowed and disables every call with ErrDisabled.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether both API keys are configured.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != "" && c.cfg.SecretKey != ""
}

// ConsignmentRequest is the payload for registering a shipment.
type ConsignmentRequest struct {
	Invoice          string  `json:"invoice"`
	RecipientName    string  `json:"recipient_name"`
	RecipientPhone   string  `json:"recipient_phone"`
	RecipientAddress string  `json:"recipient_address"`
	CODAmount        float64 `json:"cod_amount"`
	RecipientEmail   string  `json:"recipient_email,omitempty"`
	Note             string  `json:"note,omitempty"`
	ItemDescription  string  `json:"item_description,omitempty"`
	TotalLot         int     `json:"total_lot,omitempty"`
	// DeliveryType is 0 for home delivery, 1 for point delivery / hub
	// pick up.
	DeliveryType int `json:"delivery_type"`
}

// Consignment is the courier's record of a registered shipment.
type Consignment struct {
	ConsignmentID int64  `json:"consignment_id"`
	Invoice       string `json:"invoice"`
	TrackingCode  string `json:"tracking_code"`
	Status        string `json:"status"`
}

type createOrderResponse struct {
	Status      int          `json:"status"`
	Message     string       `json:"message"`
	Consignment *Consignment `json:"consignment"`
}

// CreateConsignment registers a shipment with the courier. The recipient
// phone is normalized to the 11-digit local format first; numbers that do
// not normalize are rejected without a network call. Name and address are
// truncated to the courier's field limits.
func (c *Client) CreateConsignment(ctx context.Context, req ConsignmentRequest) (*Consignment, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	req.RecipientPhone = NormalizePhone(req.RecipientPhone)
	if !validPhone(req.RecipientPhone) {
		return nil, &APIError{Kind: KindRejected, Message: "recipient phone must be 11 digits"}
	}
	req.RecipientName = truncate(req.RecipientName, 100)
	req.RecipientAddress = truncate(req.RecipientAddress, 250)

	var resp createOrderResponse
	if err := c.post(ctx, "/create_order", req, &resp); err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK || resp.Consignment == nil {
		msg := resp.Message
		if msg == "" {
			msg = "consignment was not created"
		}
		return nil, &APIError{Kind: KindRejected, StatusCode: resp.Status, Message: msg}
	}
	return resp.Consignment, nil
}

type statusResponse struct {
	Status         int    `json:"status"`
	DeliveryStatus string `json:"delivery_status"`
	Message        string `json:"message"`
}

// StatusByConsignment fetches the delivery status for a consignment ID.
func (c *Client) StatusByConsignment(ctx context.Context, consignmentID int64) (string, error) {
	return c.deliveryStatus(ctx, fmt.Sprintf("/status_by_cid/%d", consignmentID))
}

// StatusByInvoice fetches the delivery status for an invoice ID.
func (c *Client) StatusByInvoice(ctx context.Context, invoice string) (string, error) {
	return c.deliveryStatus(ctx, "/status_by_invoice/"+invoice)
}

// StatusByTrackingCode fetches the delivery status for a tracking code.
func (c *Client) StatusByTrackingCode(ctx context.Context, trackingCode string) (string, error) {
	return c.deliveryStatus(ctx, "/status_by_trackingcode/"+trackingCode)
}

func (c *Client) deliveryStatus(ctx context.Context, path string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	var resp statusResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return "", err
	}
	if resp.Status != http.StatusOK {
		return "", &APIError{Kind: KindRejected, StatusCode: resp.Status, Message: resp.Message}
	}
	return resp.DeliveryStatus, nil
}

type balanceResponse struct {
	Status         int     `json:"status"`
	CurrentBalance float64 `json:"current_balance"`
	Message        string  `json:"message"`
}

// Balance returns the current account balance with the courier.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	if !c.Enabled() {
		return 0, ErrDisabled
	}
	var resp balanceResponse
	if err := c.get(ctx, "/get_balance", &resp); err != nil {
		return 0, err
	}
	if resp.Status != http.StatusOK {
		return 0, &APIError{Kind: KindRejected, StatusCode: resp.Status, Message: resp.Message}
	}
	return resp.CurrentBalance, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &APIError{Kind: KindRejected, Message: fmt.Sprintf("failed to encode payload: %v", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return &APIError{Kind: KindRejected, Message: err.Error()}
	}
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return &APIError{Kind: KindRejected, Message: err.Error()}
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Api-Key", c.cfg.APIKey)
	req.Header.Set("Secret-Key", c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &APIError{Kind: KindAuthFailure, StatusCode: resp.StatusCode, Message: "invalid API credentials"}
	case resp.StatusCode >= 500:
		return &APIError{Kind: KindNetwork, StatusCode: resp.StatusCode, Message: "courier server error"}
	case resp.StatusCode >= 400:
		return &APIError{Kind: KindRejected, StatusCode: resp.StatusCode, Message: "request rejected"}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: KindNetwork, Message: fmt.Sprintf("failed to decode response: %v", err)}
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
