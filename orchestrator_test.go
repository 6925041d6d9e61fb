package gateway

import (
	"context"
	"encoding/json"
	"testing"
)

// fakeProcessor records calls and plays back scripted responses.
type fakeProcessor struct {
	createCalls  int
	captureCalls int
	getCalls     int

	lastRequestID string
	lastPayload   *OrderPayload

	createResult  *OrderResult
	createErr     error
	captureResult *CaptureResult
	captureErr    error
	getResult     *OrderResult
	getErr        error
}

func (f *fakeProcessor) CreateOrder(_ context.Context, payload *OrderPayload, requestID string) (*OrderResult, error) {
	f.createCalls++
	f.lastPayload = payload
	f.lastRequestID = requestID
	return f.createResult, f.createErr
}

func (f *fakeProcessor) CaptureOrder(_ context.Context, orderID, requestID string) (*CaptureResult, error) {
	f.captureCalls++
	return f.captureResult, f.captureErr
}

func (f *fakeProcessor) GetOrder(_ context.Context, orderID string) (*OrderResult, error) {
	f.getCalls++
	return f.getResult, f.getErr
}

func TestOneClickHappyPath(t *testing.T) {
	proc := &fakeProcessor{
		createResult:  &OrderResult{ID: "ORD-1", Status: "COMPLETED", Body: json.RawMessage(`{"id":"ORD-1"}`)},
		captureResult: &CaptureResult{Status: "COMPLETED", Body: json.RawMessage(`{"status":"COMPLETED"}`)},
	}
	o := NewOrchestrator(proc, OrchestratorConfig{})

	res, err := o.OneClick(context.Background(), OneClickRequest{VaultID: "TOKEN1", Amount: "100"}, "req-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OrderID != "ORD-1" || res.OrderStatus != "COMPLETED" {
		t.Errorf("unexpected result: %+v", res)
	}
	if string(res.Capture) != `{"status":"COMPLETED"}` {
		t.Errorf("unexpected capture body: %s", res.Capture)
	}
	// The caller-level key is forwarded as the processor-facing key
	if proc.lastRequestID != "req-1" {
		t.Errorf("expected forwarded request id req-1, got %s", proc.lastRequestID)
	}
	if proc.lastPayload.PaymentSource.Token == nil {
		t.Error("expected stored-instrument payment source")
	}
}

func TestOneClickAlreadyCapturedRecovery(t *testing.T) {
	proc := &fakeProcessor{
		createResult: &OrderResult{ID: "ORD-2", Status: "COMPLETED"},
		captureErr: NewUpstreamError(ErrCodeUpstreamCapture, "order capture failed (422)",
			json.RawMessage(`{"details":[{"issue":"ORDER_ALREADY_CAPTURED"}]}`), IssueOrderAlreadyCaptured),
		getResult: &OrderResult{ID: "ORD-2", Status: "COMPLETED", Body: json.RawMessage(`{"id":"ORD-2","status":"COMPLETED"}`)},
	}
	o := NewOrchestrator(proc, OrchestratorConfig{})

	res, err := o.OneClick(context.Background(), OneClickRequest{VaultID: "TOKEN1"}, "req-2")
	if err != nil {
		t.Fatalf("already-captured should be treated as success, got %v", err)
	}
	if res.OrderID != "ORD-2" || res.OrderStatus != "COMPLETED" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Capture == nil {
		t.Error("expected capture recovered from order lookup")
	}
	if proc.getCalls != 1 {
		t.Errorf("expected one order lookup, got %d", proc.getCalls)
	}
}

func TestOneClickRecoveryLookupFailure(t *testing.T) {
	proc := &fakeProcessor{
		createResult: &OrderResult{ID: "ORD-3", Status: "APPROVED"},
		captureErr: NewUpstreamError(ErrCodeUpstreamCapture, "order capture failed (422)",
			nil, IssueOrderAlreadyCaptured),
		getErr: NewUpstreamError(ErrCodeUpstreamOrder, "order lookup failed (500)", nil, ""),
	}
	o := NewOrchestrator(proc, OrchestratorConfig{})

	res, err := o.OneClick(context.Background(), OneClickRequest{VaultID: "TOKEN1"}, "req-3")
	if err != nil {
		t.Fatalf("expected creation-result fallback, got %v", err)
	}
	if res.OrderID != "ORD-3" || res.OrderStatus != "APPROVED" {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Capture != nil {
		t.Errorf("expected null capture after failed lookup, got %s", res.Capture)
	}
}

func TestOneClickTransientCaptureFailure(t *testing.T) {
	captureErr := NewUpstreamError(ErrCodeUpstreamCapture, "order capture failed (500)",
		json.RawMessage(`{"name":"INTERNAL_SERVER_ERROR"}`), "INTERNAL_SERVER_ERROR")
	proc := &fakeProcessor{
		createResult: &OrderResult{ID: "ORD-4", Status: "CREATED"},
		captureErr:   captureErr,
	}
	o := NewOrchestrator(proc, OrchestratorConfig{})

	_, err := o.OneClick(context.Background(), OneClickRequest{VaultID: "TOKEN1"}, "req-4")
	if err == nil {
		t.Fatal("expected capture failure to surface")
	}
	if !HasCode(err, ErrCodeUpstreamCapture) {
		t.Errorf("expected upstream capture error, got %v", err)
	}
	if proc.getCalls != 0 {
		t.Error("expected no recovery lookup for a non-already-captured failure")
	}
}

func TestCreateOrderGeneratesRequestID(t *testing.T) {
	proc := &fakeProcessor{createResult: &OrderResult{ID: "ORD-5", Status: "CREATED"}}
	o := NewOrchestrator(proc, OrchestratorConfig{})

	if _, err := o.CreateOrder(context.Background(), CreateOrderInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.lastRequestID == "" {
		t.Error("expected a fresh idempotency key on the processor leg")
	}

	first := proc.lastRequestID
	if _, err := o.CreateOrder(context.Background(), CreateOrderInput{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.lastRequestID == first {
		t.Error("expected a distinct key per creation call")
	}
}
