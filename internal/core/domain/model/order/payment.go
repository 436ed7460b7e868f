package order

import (
	"fmt"
	"strings"

	"canteen/internal/pkg/errs"
)

// PaymentMethod selects the checkout flow of an order.
type PaymentMethod int

const (
	UnknownPaymentMethod PaymentMethod = iota
	// Online orders wait in PaymentPending until the gateway reports back.
	Online
	// Cash orders are paid at the counter and go straight to the kitchen queue.
	Cash
)

func (m PaymentMethod) String() string {
	switch m {
	case Online:
		return "Online"
	case Cash:
		return "Cash"
	default:
		return "Unknown"
	}
}

func (m PaymentMethod) Validate() error {
	if m != Online && m != Cash {
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "online":
		return Online, nil
	case "cash", "pay_later":
		return Cash, nil
	default:
		return UnknownPaymentMethod, errs.NewValueIsInvalidErrorWithCause(
			"payment method",
			fmt.Errorf("%q is not a valid payment method", s),
		)
	}
}

// PaymentStatus follows the money, independently of the fulfillment status.
type PaymentStatus int

const (
	UnknownPaymentStatus PaymentStatus = iota
	PaymentUnpaid
	PaymentPaid
	PaymentFailed
	PaymentRefunded
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		UnknownPaymentStatus: "Unknown",
		PaymentUnpaid:        "Unpaid",
		PaymentPaid:          "Paid",
		PaymentFailed:        "Failed",
		PaymentRefunded:      "Refunded",
	}
}

func (p PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[p]; ok {
		return str
	}
	return "Unknown"
}

func (p PaymentStatus) Validate() error {
	if p < PaymentUnpaid || p > PaymentRefunded {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%d is not a valid payment status", p))
	}
	return nil
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for status, name := range getPaymentStatusStrings() {
		if status != UnknownPaymentStatus && strings.EqualFold(name, strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return UnknownPaymentStatus, errs.NewValueIsInvalidErrorWithCause(
		"payment status",
		fmt.Errorf("%q is not a valid payment status", s),
	)
}
