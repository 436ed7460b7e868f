package commands

import (
	"errors"
	"strings"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand turns a session cart into an order. The order id is chosen by the
// caller so a retried request can be recognized.
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	session       string
	customer      kernel.Phone
	customerName  string
	facility      string
	paymentMethod order.PaymentMethod

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a checkout command for the session cart.
// Validates the order ID, session, phone, customer name, facility and payment method,
// and reports every invalid field at once.
func NewPlaceOrderCommand(
	orderID kernel.UUID,
	session string,
	customer kernel.Phone,
	customerName string,
	facility string,
	paymentMethod order.PaymentMethod,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{guard: guard.NewConstructorGuard()}

	session, sessionErr := validSession(session)
	var nameErr, facilityErr error
	if strings.TrimSpace(customerName) == "" {
		nameErr = errs.NewValueIsRequiredError("customer name")
	}
	if strings.TrimSpace(facility) == "" {
		facilityErr = errs.NewValueIsRequiredError("facility")
	}

	if err := errors.Join(
		orderID.Validate(),
		sessionErr,
		customer.Validate(),
		nameErr,
		facilityErr,
		paymentMethod.Validate(),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	cmd.orderID = orderID
	cmd.session = session
	cmd.customer = customer
	cmd.customerName = strings.TrimSpace(customerName)
	cmd.facility = strings.TrimSpace(facility)
	cmd.paymentMethod = paymentMethod
	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c PlaceOrderCommand) Session() string {
	return c.session
}

func (c PlaceOrderCommand) Customer() kernel.Phone {
	return c.customer
}

func (c PlaceOrderCommand) CustomerName() string {
	return c.customerName
}

func (c PlaceOrderCommand) Facility() string {
	return c.facility
}

func (c PlaceOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}
