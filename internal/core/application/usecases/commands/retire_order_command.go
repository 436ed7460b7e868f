package commands

import (
	"errors"
	"strings"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var ErrRetireOrderCommandIsNotConstructed = errors.New(
	"RetireOrderCommand must be created via NewRetireOrderCommand constructor",
)

// RetireOrderCommand hides a finished order from the facility listings.
type RetireOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	facility string

	guard guard.ConstructorGuard
}

// NewRetireOrderCommand creates a command to hide a finished order of a facility.
func NewRetireOrderCommand(orderID kernel.UUID, facility string) (RetireOrderCommand, error) {
	var facilityErr error
	if strings.TrimSpace(facility) == "" {
		facilityErr = errs.NewValueIsRequiredError("facility")
	}
	if err := errors.Join(orderID.Validate(), facilityErr); err != nil {
		return RetireOrderCommand{}, err
	}
	return RetireOrderCommand{
		orderID:  orderID,
		facility: strings.TrimSpace(facility),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RetireOrderCommand) Validate() error {
	return c.guard.Validate(ErrRetireOrderCommandIsNotConstructed)
}

func (c RetireOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RetireOrderCommand) Facility() string {
	return c.facility
}
