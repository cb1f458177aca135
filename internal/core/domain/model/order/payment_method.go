package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// PaymentMethod identifies how the customer pays for an order. Payment
// capture itself happens outside the orchestrator; the method is carried so
// the driver knows whether to collect cash on delivery.
type PaymentMethod int

const (
	// PaymentMethodUnknown represents an invalid or undefined payment method.
	PaymentMethodUnknown PaymentMethod = iota

	// PaymentMethodCash means the driver collects cash on delivery.
	PaymentMethodCash

	// PaymentMethodCard means the order was paid electronically at checkout.
	PaymentMethodCard
)

// PaymentMethodFromString parses a wire name ("cash", "card") into a
// PaymentMethod.
func PaymentMethodFromString(s string) (PaymentMethod, error) {
	switch s {
	case "cash":
		return PaymentMethodCash, nil
	case "card":
		return PaymentMethodCard, nil
	default:
		return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause("payment method",
			fmt.Errorf("%q is not a valid payment method", s))
	}
}

// String returns the wire name of the payment method.
func (p PaymentMethod) String() string {
	switch p {
	case PaymentMethodCash:
		return "cash"
	case PaymentMethodCard:
		return "card"
	default:
		return "unknown"
	}
}

// Validate checks if the payment method is a member of the closed set.
func (p PaymentMethod) Validate() error {
	if p != PaymentMethodCash && p != PaymentMethodCard {
		return errs.NewValueIsInvalidErrorWithCause("payment method",
			fmt.Errorf("%d is not a valid payment method", p))
	}
	return nil
}
