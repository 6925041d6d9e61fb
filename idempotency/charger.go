package idempotency

import (
	"context"
	"time"

	"github.com/google/uuid"
	gateway "github.com/vaultpay/gateway"
)

// OneClicker performs a single create-and-capture charge against a stored
// instrument. The gateway's Orchestrator satisfies this.
type OneClicker interface {
	OneClick(ctx context.Context, req gateway.OneClickRequest, requestID string) (*gateway.OneClickResult, error)
}

// Charger wraps a OneClicker with request-level idempotency.
//
// It validates the request, resolves a request identifier, and checks the
// store before letting any network call happen. Once a terminal outcome is
// cached, repeated calls with the same identifier are side-effect-free.
type Charger struct {
	inner        OneClicker
	store        Store
	keyGenerator KeyGenerator
}

// Wrap creates a Charger around the given OneClicker.
//
// Default configuration:
//   - InMemoryStore with 1-hour TTL
//   - random UUID key generator
func Wrap(inner OneClicker, opts ...Option) *Charger {
	cfg := &config{
		ttl:          time.Hour,
		keyGenerator: uuid.NewString,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	store := cfg.store
	if store == nil {
		store = NewInMemoryStore(cfg.ttl)
	}

	return &Charger{
		inner:        inner,
		store:        store,
		keyGenerator: cfg.keyGenerator,
	}
}

// Store returns the underlying store, for wiring the sweeper.
func (c *Charger) Store() Store {
	return c.store
}

// OneClick charges a stored instrument at most once per request identifier.
//
// requestID is the caller-supplied idempotency key; when empty a fresh one
// is generated. The flow:
//  1. Validate the request. Validation failures never reach the store or
//     the processor.
//  2. Check the store. A cached outcome is returned unchanged with zero
//     outbound calls.
//  3. Otherwise delegate, forwarding the identifier as the processor-facing
//     idempotency key for order creation.
//  4. Cache successful outcomes (including already-captured recovery).
//     Failures are not cached, so the caller can retry with the same key.
func (c *Charger) OneClick(ctx context.Context, req gateway.OneClickRequest, requestID string) (*gateway.OneClickResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if requestID == "" {
		requestID = c.keyGenerator()
	}

	status, cached, done := c.store.CheckAndMark(requestID)

	switch status {
	case StatusCached:
		return cached, nil

	case StatusInFlight:
		// Wait for the in-flight charge, respecting context cancellation
		result, err := c.store.WaitForResult(ctx, requestID, done)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
		// In-flight request failed, retry (will get a new in-flight slot)
		return c.OneClick(ctx, req, requestID)

	case StatusNotFound:
		// This request owns the in-flight slot, proceed
	}

	result, err := c.inner.OneClick(ctx, req, requestID)
	if err != nil {
		// Don't cache failures - allow retries
		c.store.Fail(requestID, done)
		return nil, err
	}

	c.store.Complete(requestID, result, done)
	return result, nil
}
