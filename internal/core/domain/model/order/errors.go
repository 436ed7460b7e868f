package order

import (
	"errors"
	"fmt"

	"canteen/internal/core/domain/model/kernel"
)

var (
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrPaymentMismatch       = errors.New("payment mismatch")
)

// InvalidTransitionError names the trigger that was refused and the status the order
// actually had at that moment.
type InvalidTransitionError struct {
	OrderID kernel.UUID
	Trigger Trigger
	Current Status
}

func (e *InvalidTransitionError) Error() string {
	if e.OrderID.Validate() != nil {
		return fmt.Sprintf("%s: %s is not allowed from %s", ErrInvalidTransition, e.Trigger, e.Current)
	}
	return fmt.Sprintf("%s: order %s cannot apply %s in status %s", ErrInvalidTransition, e.OrderID, e.Trigger, e.Current)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PaymentMismatchError is returned when a gateway result does not belong to the order.
type PaymentMismatchError struct {
	OrderID  kernel.UUID
	Expected string
	Got      string
}

func NewPaymentMismatchError(orderID kernel.UUID, expected, got string) *PaymentMismatchError {
	return &PaymentMismatchError{OrderID: orderID, Expected: expected, Got: got}
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("%s: order %s expected %s, got %s", ErrPaymentMismatch, e.OrderID, e.Expected, e.Got)
}

func (e *PaymentMismatchError) Unwrap() error {
	return ErrPaymentMismatch
}
