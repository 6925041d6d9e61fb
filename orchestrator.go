package gateway

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Processor is the boundary to the payment processor's REST API. The
// gateway depends only on the 2xx/non-2xx distinction, the id/status fields
// on order responses, and the issue code surfaced in error bodies.
type Processor interface {
	CreateOrder(ctx context.Context, payload *OrderPayload, requestID string) (*OrderResult, error)
	CaptureOrder(ctx context.Context, orderID, requestID string) (*CaptureResult, error)
	GetOrder(ctx context.Context, orderID string) (*OrderResult, error)
}

// Checkout experience enumerators.
const (
	LandingPageLogin = "LOGIN"
	UserActionPayNow = "PAY_NOW"
)

// DefaultAmount is charged when a request does not name one.
const DefaultAmount = "100"

// OrchestratorConfig configures order construction.
type OrchestratorConfig struct {
	// BrandName and Locale shape the hosted checkout experience for
	// interactive orders.
	BrandName string
	Locale    string

	// ReturnURL and CancelURL are the approval-flow callbacks.
	ReturnURL string
	CancelURL string

	// ShipTo is attached to the purchase unit for shipping modes that
	// include an address.
	ShipTo *Address

	// Logger is optional; zap.NewNop is used when nil.
	Logger *zap.Logger
}

// Orchestrator builds and submits order-creation and capture requests,
// selecting the request shape from the caller's inputs. It performs no
// caching; see the idempotency package for the one-click dedup layer.
type Orchestrator struct {
	processor Processor
	cfg       OrchestratorConfig
	log       *zap.Logger
}

// NewOrchestrator creates an Orchestrator backed by the given processor.
func NewOrchestrator(processor Processor, cfg OrchestratorConfig) *Orchestrator {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		processor: processor,
		cfg:       cfg,
		log:       log,
	}
}

// BuildPayload assembles the order-creation body for the given input.
//
// Stored-instrument input (VaultID set) produces a token payment source with
// no vaulting attributes; the instrument is already vaulted. Otherwise the
// payload uses an interactive payer source requesting store-on-success,
// linked to the caller's vault customer when one is known.
func (o *Orchestrator) BuildPayload(in CreateOrderInput) *OrderPayload {
	currency := in.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	amount := in.Amount
	if amount == "" {
		amount = DefaultAmount
	}

	unit := PurchaseUnit{
		Amount:      Amount{CurrencyCode: currency, Value: amount},
		Description: in.Description,
	}

	mode := in.ShippingMode
	if mode == "" {
		mode = ShippingNone
	}
	if mode.IncludesAddress() && o.cfg.ShipTo != nil {
		unit.Shipping = &Shipping{Address: o.cfg.ShipTo}
	}

	payload := &OrderPayload{
		Intent:        "CAPTURE",
		PurchaseUnits: []PurchaseUnit{unit},
	}

	if in.VaultID != "" {
		payload.PaymentSource = &PaymentSource{
			Token: &TokenSource{ID: in.VaultID, Type: TokenTypePaymentMethod},
		}
		return payload
	}

	source := &PayPalSource{
		ExperienceContext: ExperienceContext{
			BrandName:          o.cfg.BrandName,
			Locale:             o.cfg.Locale,
			LandingPage:        LandingPageLogin,
			UserAction:         UserActionPayNow,
			ShippingPreference: mode.Preference(),
			ReturnURL:          o.cfg.ReturnURL,
			CancelURL:          o.cfg.CancelURL,
		},
		Attributes: &SourceAttributes{
			Vault: &VaultAttributes{
				StoreInVault: StoreOnSuccess,
				UsageType:    UsageTypeMerchant,
				CustomerType: CustomerTypeConsumer,
			},
		},
	}
	if in.CustomerID != "" {
		source.Attributes.Customer = &CustomerRef{ID: in.CustomerID}
	}
	payload.PaymentSource = &PaymentSource{PayPal: source}
	return payload
}

// CreateOrder builds and submits an order. Each call carries a fresh
// idempotency key on the processor leg unless the input forwards one.
func (o *Orchestrator) CreateOrder(ctx context.Context, in CreateOrderInput) (*OrderResult, error) {
	requestID := in.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	res, err := o.processor.CreateOrder(ctx, o.BuildPayload(in), requestID)
	if err != nil {
		return nil, err
	}
	o.log.Info("order created",
		zap.String("order_id", res.ID),
		zap.String("status", res.Status))
	return res, nil
}

// CaptureOrder submits a capture for an existing order with a freshly
// generated idempotency key. Failure interpretation is the caller's job.
func (o *Orchestrator) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	return o.processor.CaptureOrder(ctx, orderID, uuid.NewString())
}

// GetOrder fetches the processor's current view of an order.
func (o *Orchestrator) GetOrder(ctx context.Context, orderID string) (*OrderResult, error) {
	return o.processor.GetOrder(ctx, orderID)
}

// OneClick creates and captures an order against a stored instrument in one
// logical call. requestID is forwarded as the processor-facing idempotency
// key for order creation.
//
// A capture rejection with the already-captured issue code is treated as
// success: the current order state is fetched to recover the capture
// record, and if that lookup fails too the creation result is returned with
// a null capture. Any other capture failure is surfaced unchanged so the
// caller can retry.
func (o *Orchestrator) OneClick(ctx context.Context, req OneClickRequest, requestID string) (*OneClickResult, error) {
	created, err := o.CreateOrder(ctx, CreateOrderInput{
		VaultID:     req.VaultID,
		CustomerID:  req.CustomerID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		RequestID:   requestID,
	})
	if err != nil {
		return nil, err
	}

	capture, err := o.CaptureOrder(ctx, created.ID)
	if err != nil {
		if !AlreadyCaptured(err) {
			return nil, err
		}

		// The order was captured by an earlier attempt. Recover the
		// capture record from the order itself so retries converge on
		// a stable response.
		o.log.Warn("capture raced an earlier attempt, recovering order state",
			zap.String("order_id", created.ID))
		current, getErr := o.GetOrder(ctx, created.ID)
		if getErr != nil {
			o.log.Warn("order lookup failed after already-captured, returning creation result",
				zap.String("order_id", created.ID),
				zap.Error(getErr))
			return &OneClickResult{
				OrderID:     created.ID,
				OrderStatus: created.Status,
				Capture:     nil,
			}, nil
		}
		return &OneClickResult{
			OrderID:     created.ID,
			OrderStatus: current.Status,
			Capture:     current.Body,
		}, nil
	}

	return &OneClickResult{
		OrderID:     created.ID,
		OrderStatus: created.Status,
		Capture:     capture.Body,
	}, nil
}
