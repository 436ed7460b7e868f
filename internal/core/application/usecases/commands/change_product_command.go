package commands

import (
	"errors"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/guard"
)

var ErrChangeProductPriceCommandIsNotConstructed = errors.New(
	"ChangeProductPriceCommand must be created via NewChangeProductPriceCommand constructor",
)

// ChangeProductPriceCommand reprices a product. Orders already placed keep the price
// they were placed at.
type ChangeProductPriceCommand struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	price     kernel.Money

	guard guard.ConstructorGuard
}

// NewChangeProductPriceCommand creates a command to reprice a product.
func NewChangeProductPriceCommand(productID kernel.UUID, price kernel.Money) (ChangeProductPriceCommand, error) {
	if err := errors.Join(productID.Validate(), price.Validate()); err != nil {
		return ChangeProductPriceCommand{}, err
	}
	return ChangeProductPriceCommand{productID: productID, price: price, guard: guard.NewConstructorGuard()}, nil
}

func (c ChangeProductPriceCommand) Validate() error {
	return c.guard.Validate(ErrChangeProductPriceCommandIsNotConstructed)
}

func (c ChangeProductPriceCommand) ProductID() kernel.UUID {
	return c.productID
}

func (c ChangeProductPriceCommand) Price() kernel.Money {
	return c.price
}

var ErrSetProductAvailabilityCommandIsNotConstructed = errors.New(
	"SetProductAvailabilityCommand must be created via NewSetProductAvailabilityCommand constructor",
)

// SetProductAvailabilityCommand takes a product off the menu or puts it back. Carts
// already holding it keep their reservation, but checkout refuses it.
type SetProductAvailabilityCommand struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	available bool

	guard guard.ConstructorGuard
}

// NewSetProductAvailabilityCommand creates a command to switch a product on or off.
func NewSetProductAvailabilityCommand(productID kernel.UUID, available bool) (SetProductAvailabilityCommand, error) {
	if err := productID.Validate(); err != nil {
		return SetProductAvailabilityCommand{}, err
	}
	return SetProductAvailabilityCommand{productID: productID, available: available, guard: guard.NewConstructorGuard()}, nil
}

func (c SetProductAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetProductAvailabilityCommandIsNotConstructed)
}

func (c SetProductAvailabilityCommand) ProductID() kernel.UUID {
	return c.productID
}

func (c SetProductAvailabilityCommand) Available() bool {
	return c.available
}
