package commands

import (
	"errors"
	"strings"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var ErrAddToCartCommandIsNotConstructed = errors.New(
	"AddToCartCommand must be created via NewAddToCartCommand constructor",
)

// AddToCartCommand puts one more unit of a product into a session cart.
type AddToCartCommand struct { //nolint:recvcheck //using for validation
	session   string
	productID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAddToCartCommand creates a command to add one unit of a product to a cart.
// Validates that the session is not blank and the product ID is valid.
func NewAddToCartCommand(session string, productID kernel.UUID) (AddToCartCommand, error) {
	cmd := AddToCartCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setSession(session),
		cmd.setProductID(productID),
	); err != nil {
		return AddToCartCommand{}, err
	}
	return cmd, nil
}

func (c AddToCartCommand) Validate() error {
	return c.guard.Validate(ErrAddToCartCommandIsNotConstructed)
}

func (c AddToCartCommand) Session() string {
	return c.session
}

func (c AddToCartCommand) ProductID() kernel.UUID {
	return c.productID
}

func (c *AddToCartCommand) setSession(session string) error {
	session, err := validSession(session)
	c.session = session
	return err
}

func (c *AddToCartCommand) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	c.productID = productID
	return nil
}

func validSession(session string) (string, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return "", errs.NewValueIsRequiredError("session")
	}
	return session, nil
}
