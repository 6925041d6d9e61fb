package idempotency

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	gateway "github.com/vaultpay/gateway"
)

// countingOneClicker records how many network-side charges were attempted.
type countingOneClicker struct {
	calls      int
	lastReqID  string
	result     *gateway.OneClickResult
	err        error
	failFirstN int
}

func (c *countingOneClicker) OneClick(_ context.Context, _ gateway.OneClickRequest, requestID string) (*gateway.OneClickResult, error) {
	c.calls++
	c.lastReqID = requestID
	if c.failFirstN >= c.calls {
		return nil, c.err
	}
	if c.err != nil && c.failFirstN == 0 {
		return nil, c.err
	}
	return c.result, nil
}

func TestChargerReplayWithoutSideEffects(t *testing.T) {
	inner := &countingOneClicker{
		result: &gateway.OneClickResult{
			OrderID:     "ORD-1",
			OrderStatus: "COMPLETED",
			Capture:     json.RawMessage(`{"status":"COMPLETED"}`),
		},
	}
	charger := Wrap(inner)
	req := gateway.OneClickRequest{VaultID: "TOKEN1", Amount: "100", Currency: "JPY"}

	first, err := charger.OneClick(context.Background(), req, "key-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := charger.OneClick(context.Background(), req, "key-1")
	if err != nil {
		t.Fatalf("unexpected error on replay: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("replay differed: %+v vs %+v", first, second)
	}
	// The replay must not have reached the orchestrator at all
	if inner.calls != 1 {
		t.Errorf("expected 1 outbound charge, got %d", inner.calls)
	}
}

func TestChargerValidationShortCircuits(t *testing.T) {
	inner := &countingOneClicker{}
	charger := Wrap(inner)

	_, err := charger.OneClick(context.Background(), gateway.OneClickRequest{}, "key-2")
	if err == nil {
		t.Fatal("expected validation error for missing vaultId")
	}
	if !gateway.HasCode(err, gateway.ErrCodeValidation) {
		t.Errorf("expected validation code, got %v", err)
	}

	_, err = charger.OneClick(context.Background(),
		gateway.OneClickRequest{VaultID: "TOKEN1", Amount: "1.5", Currency: "JPY"}, "key-2")
	if err == nil {
		t.Fatal("expected validation error for fractional JPY amount")
	}

	if inner.calls != 0 {
		t.Errorf("validation failures must not reach the orchestrator, got %d calls", inner.calls)
	}
}

func TestChargerGeneratesKeyWhenAbsent(t *testing.T) {
	inner := &countingOneClicker{result: &gateway.OneClickResult{OrderID: "ORD-2"}}
	charger := Wrap(inner, WithKeyGenerator(func() string { return "generated-key" }))

	if _, err := charger.OneClick(context.Background(), gateway.OneClickRequest{VaultID: "TOKEN1"}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.lastReqID != "generated-key" {
		t.Errorf("expected generated key forwarded to orchestrator, got %q", inner.lastReqID)
	}
}

func TestChargerDoesNotCacheFailures(t *testing.T) {
	inner := &countingOneClicker{
		err: gateway.NewUpstreamError(gateway.ErrCodeUpstreamCapture,
			"order capture failed (500)", nil, ""),
		failFirstN: 1,
		result:     &gateway.OneClickResult{OrderID: "ORD-3", OrderStatus: "COMPLETED"},
	}
	charger := Wrap(inner)
	req := gateway.OneClickRequest{VaultID: "TOKEN1"}

	_, err := charger.OneClick(context.Background(), req, "key-3")
	if err == nil {
		t.Fatal("expected first attempt to fail")
	}

	// The same key is retryable and performs a fresh charge
	res, err := charger.OneClick(context.Background(), req, "key-3")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if res.OrderID != "ORD-3" {
		t.Errorf("unexpected result: %+v", res)
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 outbound charges, got %d", inner.calls)
	}
}

func TestChargerDistinctKeysDistinctCharges(t *testing.T) {
	inner := &countingOneClicker{result: &gateway.OneClickResult{OrderID: "ORD-4"}}
	charger := Wrap(inner)
	req := gateway.OneClickRequest{VaultID: "TOKEN1"}

	for _, key := range []string{"k1", "k2", "k3"} {
		if _, err := charger.OneClick(context.Background(), req, key); err != nil {
			t.Fatalf("unexpected error for key %s: %v", key, err)
		}
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 outbound charges for 3 keys, got %d", inner.calls)
	}
}
