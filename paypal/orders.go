package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	gateway "github.com/vaultpay/gateway"
)

// ============================================================================
// Orders API
// ============================================================================

// orderFields is the slice of an order response the gateway cares about.
type orderFields struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateOrder submits an order-creation payload. requestID is sent as the
// PayPal-Request-Id idempotency header. A non-2xx response surfaces as an
// upstream order error with the processor's body attached.
func (c *Client) CreateOrder(ctx context.Context, payload *gateway.OrderPayload, requestID string) (*gateway.OrderResult, error) {
	body, status, err := c.call(ctx, http.MethodPost, "/v2/checkout/orders", payload, requestID)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, upstreamError(gateway.ErrCodeUpstreamOrder,
			fmt.Sprintf("order creation failed (%d)", status), body)
	}

	var fields orderFields
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	return &gateway.OrderResult{ID: fields.ID, Status: fields.Status, Body: body}, nil
}

// CaptureOrder submits a capture for an existing order id.
func (c *Client) CaptureOrder(ctx context.Context, orderID, requestID string) (*gateway.CaptureResult, error) {
	path := "/v2/checkout/orders/" + url.PathEscape(orderID) + "/capture"
	body, status, err := c.call(ctx, http.MethodPost, path, struct{}{}, requestID)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, upstreamError(gateway.ErrCodeUpstreamCapture,
			fmt.Sprintf("order capture failed (%d)", status), body)
	}

	var fields orderFields
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode capture response: %w", err)
	}
	return &gateway.CaptureResult{Status: fields.Status, Body: body}, nil
}

// GetOrder fetches the current state of an order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*gateway.OrderResult, error) {
	path := "/v2/checkout/orders/" + url.PathEscape(orderID)
	body, status, err := c.call(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, upstreamError(gateway.ErrCodeUpstreamOrder,
			fmt.Sprintf("order lookup failed (%d)", status), body)
	}

	var fields orderFields
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	return &gateway.OrderResult{ID: fields.ID, Status: fields.Status, Body: body}, nil
}

// ============================================================================
// Vault API
// ============================================================================

// ListPaymentTokens returns the processor's stored-instrument list for a
// vault customer, verbatim.
func (c *Client) ListPaymentTokens(ctx context.Context, customerID string) (json.RawMessage, error) {
	path := "/v3/vault/payment-tokens?customer_id=" + url.QueryEscape(customerID)
	body, status, err := c.call(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, upstreamError(gateway.ErrCodeUpstreamOrder,
			fmt.Sprintf("payment token listing failed (%d)", status), body)
	}
	return body, nil
}

// call performs one authenticated API request and returns the raw response
// body with its status code. Every call fetches a fresh access token.
func (c *Client) call(ctx context.Context, method, path string, payload any, requestID string) (json.RawMessage, int, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if requestID != "" {
		req.Header.Set("PayPal-Request-Id", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// Ensure Client implements the gateway's processor boundary.
var _ gateway.Processor = (*Client)(nil)
