package commands

import (
	"errors"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand is a customer withdrawing an order before the kitchen accepts it.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	customer kernel.Phone

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a customer cancellation for an order.
// Returns an error if the order ID or the phone is invalid.
func NewCancelOrderCommand(orderID kernel.UUID, customer kernel.Phone) (CancelOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), customer.Validate()); err != nil {
		return CancelOrderCommand{}, err
	}
	return CancelOrderCommand{orderID: orderID, customer: customer, guard: guard.NewConstructorGuard()}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CancelOrderCommand) Customer() kernel.Phone {
	return c.customer
}
