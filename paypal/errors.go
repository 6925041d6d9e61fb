package paypal

import (
	"encoding/json"

	gateway "github.com/vaultpay/gateway"
)

// apiError is the processor's error-body shape. Only the machine-readable
// issue codes are interpreted; the body itself is passed through verbatim.
type apiError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Details []struct {
		Issue       string `json:"issue"`
		Description string `json:"description"`
	} `json:"details"`
}

// decodeIssue extracts the first machine-readable issue code from an error
// body, falling back to the top-level error name. Returns "" when the body
// is not the processor's error shape.
func decodeIssue(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	for _, d := range e.Details {
		if d.Issue != "" {
			return d.Issue
		}
	}
	return e.Name
}

// upstreamError builds a gateway error for a rejected processor call,
// attaching the response body and its extracted issue code.
func upstreamError(code, message string, body json.RawMessage) *gateway.Error {
	issue := decodeIssue(body)
	if !json.Valid(body) {
		// Keep non-JSON bodies visible to callers as a JSON string.
		quoted, _ := json.Marshal(string(body))
		body = quoted
	}
	return gateway.NewUpstreamError(code, message, body, issue)
}
