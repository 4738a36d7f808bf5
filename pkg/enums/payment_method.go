package enums

import "fmt"

// PaymentMethod identifies how the customer paid (or will pay) for an order.
// Mobile wallet payments are manual: the customer sends money externally and
// submits the wallet transaction id as proof.
type PaymentMethod string

const (
	PaymentMethodBkash  PaymentMethod = "bkash"
	PaymentMethodNagad  PaymentMethod = "nagad"
	PaymentMethodRocket PaymentMethod = "rocket"
	PaymentMethodCOD    PaymentMethod = "cod"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodBkash,
	PaymentMethodNagad,
	PaymentMethodRocket,
	PaymentMethodCOD,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
