// Package paypal is the outbound REST client for the payment processor:
// credential exchange, order create/capture/get, and vault payment-token
// listing. It owns all knowledge of the processor's response shapes,
// including the error-body decoding the gateway's recovery logic relies on.
package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gateway "github.com/vaultpay/gateway"
)

// ============================================================================
// Client
// ============================================================================

// API hosts per environment mode.
const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"
)

// Config configures the processor client.
type Config struct {
	// ClientID and ClientSecret are the service credentials used for the
	// client-credentials grant.
	ClientID     string
	ClientSecret string

	// Environment selects the API host: "live" or anything else for
	// sandbox.
	Environment string

	// BaseURL overrides the environment-derived host (used in tests).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *http.Client

	// Timeout for requests (optional, defaults to 30s). Ignored when
	// HTTPClient is set.
	Timeout time.Duration
}

// Client calls the processor's REST API. Tokens are fetched per call chain
// and never cached; every outbound operation re-authenticates.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewClient creates a processor client.
func NewClient(config *Config) *Client {
	if config == nil {
		config = &Config{}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		if strings.EqualFold(config.Environment, "live") {
			baseURL = LiveBaseURL
		} else {
			baseURL = SandboxBaseURL
		}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	return &Client{
		baseURL:      baseURL,
		clientID:     config.ClientID,
		clientSecret: config.ClientSecret,
		httpClient:   httpClient,
	}
}

// Configured reports whether service credentials are present.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// ClientID returns the configured client id (exposed to the front-end SDK).
func (c *Client) ClientID() string {
	return c.clientID
}

// ============================================================================
// Credential broker
// ============================================================================

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
}

// AccessToken exchanges the service credentials for a short-lived bearer
// token via the client-credentials grant.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	tok, err := c.tokenExchange(ctx, form)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// IdentityToken performs the same exchange augmented with
// response_type=id_token. When customerID is set, the token is scoped to
// that known payer so the front-end can surface their vaulted instruments.
func (c *Client) IdentityToken(ctx context.Context, customerID string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("response_type", "id_token")
	if customerID != "" {
		form.Set("target_customer_id", customerID)
	}

	tok, err := c.tokenExchange(ctx, form)
	if err != nil {
		return "", err
	}
	return tok.IDToken, nil
}

func (c *Client) tokenExchange(ctx context.Context, form url.Values) (*tokenResponse, error) {
	if !c.Configured() {
		return nil, gateway.NewError(gateway.ErrCodeAuthConfig,
			"client credentials are not configured", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamError(gateway.ErrCodeUpstreamAuth,
			fmt.Sprintf("token exchange failed (%d)", resp.StatusCode), body)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	return &tok, nil
}
