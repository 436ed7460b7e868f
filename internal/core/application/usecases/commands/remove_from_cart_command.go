package commands

import (
	"errors"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/guard"
)

var ErrRemoveFromCartCommandIsNotConstructed = errors.New(
	"RemoveFromCartCommand must be created via NewRemoveFromCartCommand constructor",
)

// RemoveFromCartCommand drops a whole product line from a session cart.
type RemoveFromCartCommand struct { //nolint:recvcheck //using for validation
	session   string
	productID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRemoveFromCartCommand creates a command to drop a whole cart line.
func NewRemoveFromCartCommand(session string, productID kernel.UUID) (RemoveFromCartCommand, error) {
	cmd := RemoveFromCartCommand{guard: guard.NewConstructorGuard()}

	session, sessionErr := validSession(session)
	if err := errors.Join(sessionErr, productID.Validate()); err != nil {
		return RemoveFromCartCommand{}, err
	}

	cmd.session = session
	cmd.productID = productID
	return cmd, nil
}

func (c RemoveFromCartCommand) Validate() error {
	return c.guard.Validate(ErrRemoveFromCartCommandIsNotConstructed)
}

func (c RemoveFromCartCommand) Session() string {
	return c.session
}

func (c RemoveFromCartCommand) ProductID() kernel.UUID {
	return c.productID
}
