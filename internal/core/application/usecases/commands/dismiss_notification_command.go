package commands

import (
	"errors"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/pkg/guard"
)

var ErrDismissNotificationCommandIsNotConstructed = errors.New(
	"DismissNotificationCommand must be created via NewDismissNotificationCommand constructor",
)

type DismissNotificationCommand struct { //nolint:recvcheck //using for validation
	recipient kernel.Phone
	orderID   kernel.UUID

	guard guard.ConstructorGuard
}

// NewDismissNotificationCommand creates a command to dismiss the notifications of one order.
func NewDismissNotificationCommand(recipient kernel.Phone, orderID kernel.UUID) (DismissNotificationCommand, error) {
	if err := errors.Join(recipient.Validate(), orderID.Validate()); err != nil {
		return DismissNotificationCommand{}, err
	}
	return DismissNotificationCommand{recipient: recipient, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c DismissNotificationCommand) Validate() error {
	return c.guard.Validate(ErrDismissNotificationCommandIsNotConstructed)
}

func (c DismissNotificationCommand) Recipient() kernel.Phone {
	return c.recipient
}

func (c DismissNotificationCommand) OrderID() kernel.UUID {
	return c.orderID
}
