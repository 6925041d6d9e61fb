// Package server is the HTTP facade: request/response mapping between the
// storefront front-end and the gateway's core flows.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	gateway "github.com/vaultpay/gateway"
	"go.uber.org/zap"
)

// Vault exposes the credential-broker and stored-instrument operations the
// facade needs. The paypal client satisfies this.
type Vault interface {
	IdentityToken(ctx context.Context, customerID string) (string, error)
	ListPaymentTokens(ctx context.Context, customerID string) (json.RawMessage, error)
}

// Orders exposes order creation and capture. The gateway Orchestrator
// satisfies this.
type Orders interface {
	CreateOrder(ctx context.Context, in gateway.CreateOrderInput) (*gateway.OrderResult, error)
	CaptureOrder(ctx context.Context, orderID string) (*gateway.CaptureResult, error)
}

// OneClicker performs idempotent one-click charges. The idempotency Charger
// satisfies this.
type OneClicker interface {
	OneClick(ctx context.Context, req gateway.OneClickRequest, requestID string) (*gateway.OneClickResult, error)
}

// Server wires the gateway components to HTTP routes.
type Server struct {
	clientID string
	mode     string
	vault    Vault
	orders   Orders
	oneclick OneClicker
	log      *zap.Logger
}

// New creates a Server. clientID and mode are echoed on /api/config for the
// front-end SDK; an empty clientID marks the gateway unconfigured.
func New(clientID, mode string, vault Vault, orders Orders, oneclick OneClicker, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		clientID: clientID,
		mode:     mode,
		vault:    vault,
		orders:   orders,
		oneclick: oneclick,
		log:      log,
	}
}

// Routes builds the gin engine with all gateway routes mounted.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(s.log), gin.Recovery())

	r.GET("/health", s.health)

	api := r.Group("/api")
	api.GET("/config", s.configEcho)
	api.GET("/generate-client-token", s.generateClientToken)
	api.GET("/payment-tokens/:customerId", s.paymentTokens)
	api.POST("/orders", s.createOrder)
	api.POST("/orders/oneclick", s.oneClick)
	api.POST("/orders/:orderId/capture", s.captureOrder)

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": s.mode})
}

func (s *Server) configEcho(c *gin.Context) {
	if s.clientID == "" {
		writeError(c, s.log, gateway.NewError(gateway.ErrCodeAuthConfig,
			"client credentials are not configured", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientId": s.clientID, "mode": s.mode})
}

func (s *Server) generateClientToken(c *gin.Context) {
	token, err := s.vault.IdentityToken(c.Request.Context(), c.Query("customer_id"))
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id_token": token})
}

func (s *Server) paymentTokens(c *gin.Context) {
	body, err := s.vault.ListPaymentTokens(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

type createOrderRequest struct {
	CustomerID   string `json:"customerId"`
	VaultID      string `json:"vaultId"`
	ShippingMode string `json:"shippingMode"`
}

func (s *Server) createOrder(c *gin.Context) {
	// Every field is optional here, so an absent body is fine.
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, s.log, gateway.NewError(gateway.ErrCodeValidation, err.Error(), nil))
		return
	}

	mode := gateway.ShippingMode(req.ShippingMode)
	if mode == "" {
		mode = gateway.ShippingNone
	}
	if !mode.Valid() {
		writeError(c, s.log, gateway.NewError(gateway.ErrCodeValidation,
			"unknown shippingMode: "+req.ShippingMode, nil))
		return
	}

	res, err := s.orders.CreateOrder(c.Request.Context(), gateway.CreateOrderInput{
		CustomerID:   req.CustomerID,
		VaultID:      req.VaultID,
		ShippingMode: mode,
	})
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.Data(http.StatusCreated, "application/json", res.Body)
}

func (s *Server) oneClick(c *gin.Context) {
	var req gateway.OneClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, s.log, gateway.NewError(gateway.ErrCodeValidation, err.Error(), nil))
		return
	}

	// Caller-supplied idempotency key; the charger generates one when
	// both headers are absent.
	key := c.GetHeader("x-idempotency-key")
	if key == "" {
		key = c.GetHeader("paypal-request-id")
	}

	result, err := s.oneclick.OneClick(c.Request.Context(), req, key)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) captureOrder(c *gin.Context) {
	res, err := s.orders.CaptureOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.Data(http.StatusCreated, "application/json", res.Body)
}

// writeError maps a gateway error to an HTTP status and a structured error
// envelope. Upstream bodies travel in details verbatim.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var gerr *gateway.Error
	if !errors.As(err, &gerr) {
		log.Error("request failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": "internal", "message": err.Error()},
		})
		return
	}

	status := http.StatusInternalServerError
	switch gerr.Code {
	case gateway.ErrCodeValidation:
		status = http.StatusBadRequest
	case gateway.ErrCodeAuthConfig:
		status = http.StatusInternalServerError
	case gateway.ErrCodeUpstreamAuth, gateway.ErrCodeUpstreamOrder, gateway.ErrCodeUpstreamCapture:
		status = http.StatusBadGateway
	}

	log.Warn("request rejected",
		zap.String("code", gerr.Code),
		zap.String("issue", gerr.Issue),
		zap.Int("status", status))
	c.AbortWithStatusJSON(status, gin.H{"error": gerr})
}
