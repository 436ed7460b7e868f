package commands

import (
	"errors"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/guard"
)

var ErrDecreaseCartCommandIsNotConstructed = errors.New(
	"DecreaseCartCommand must be created via NewDecreaseCartCommand constructor",
)

// DecreaseCartCommand takes one unit of a product out of a session cart.
type DecreaseCartCommand struct { //nolint:recvcheck //using for validation
	session   string
	productID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDecreaseCartCommand creates a command to take one unit out of a cart line.
func NewDecreaseCartCommand(session string, productID kernel.UUID) (DecreaseCartCommand, error) {
	cmd := DecreaseCartCommand{guard: guard.NewConstructorGuard()}

	session, sessionErr := validSession(session)
	if err := errors.Join(sessionErr, productID.Validate()); err != nil {
		return DecreaseCartCommand{}, err
	}

	cmd.session = session
	cmd.productID = productID
	return cmd, nil
}

func (c DecreaseCartCommand) Validate() error {
	return c.guard.Validate(ErrDecreaseCartCommandIsNotConstructed)
}

func (c DecreaseCartCommand) Session() string {
	return c.session
}

func (c DecreaseCartCommand) ProductID() kernel.UUID {
	return c.productID
}
