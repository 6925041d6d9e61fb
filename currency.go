package gateway

import (
	"fmt"
	"strings"
)

// DefaultCurrency is used when a request does not name one.
const DefaultCurrency = "JPY"

// zeroDecimalCurrencies are currencies whose smallest unit has no fractional
// subdivision in the processor's amount representation.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"HUF": true,
	"TWD": true,
}

// ZeroDecimal reports whether the currency rejects fractional amounts.
func ZeroDecimal(currency string) bool {
	return zeroDecimalCurrencies[strings.ToUpper(currency)]
}

// ValidateAmount checks a decimal amount string against the currency's
// rules. A fractional amount in a zero-decimal currency is rejected before
// any network call is made.
func ValidateAmount(value, currency string) error {
	if ZeroDecimal(currency) && strings.Contains(value, ".") {
		return NewError(ErrCodeValidation,
			fmt.Sprintf("%s does not support decimals", strings.ToUpper(currency)), nil)
	}
	return nil
}
