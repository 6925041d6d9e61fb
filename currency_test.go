package gateway

import "testing"

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		currency string
		wantErr  bool
	}{
		{"jpy integer", "100", "JPY", false},
		{"jpy fractional", "100.50", "JPY", true},
		{"jpy trailing zero fraction", "100.0", "JPY", true},
		{"usd fractional", "10.99", "USD", false},
		{"huf fractional", "5.5", "HUF", true},
		{"twd fractional", "3.1", "TWD", true},
		{"lowercase jpy fractional", "1.5", "jpy", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(tt.value, tt.currency)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAmount(%q, %q) error = %v, wantErr %v",
					tt.value, tt.currency, err, tt.wantErr)
			}
			if err != nil && !HasCode(err, ErrCodeValidation) {
				t.Errorf("expected validation error code, got %v", err)
			}
		})
	}
}

func TestOneClickRequestValidate(t *testing.T) {
	// Missing vaultId is rejected before anything else happens
	err := OneClickRequest{Amount: "100"}.Validate()
	if err == nil {
		t.Fatal("expected error for missing vaultId")
	}
	if !HasCode(err, ErrCodeValidation) {
		t.Errorf("expected validation code, got %v", err)
	}
	if err.Error() != "validation: vaultId required" {
		t.Errorf("unexpected message: %v", err)
	}

	// Default currency is JPY, so a fractional amount is rejected
	err = OneClickRequest{VaultID: "TOKEN1", Amount: "100.5"}.Validate()
	if err == nil {
		t.Fatal("expected error for fractional JPY amount")
	}

	// Explicit decimal currency allows fractions
	if err := (OneClickRequest{VaultID: "TOKEN1", Amount: "100.5", Currency: "USD"}).Validate(); err != nil {
		t.Errorf("expected USD fractional amount to validate, got %v", err)
	}

	// Empty amount is fine, the orchestrator applies the default
	if err := (OneClickRequest{VaultID: "TOKEN1"}).Validate(); err != nil {
		t.Errorf("expected empty amount to validate, got %v", err)
	}
}
