package commands

import (
	"errors"
	"time"

	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var ErrExpireCartsCommandIsNotConstructed = errors.New(
	"ExpireCartsCommand must be created via NewExpireCartsCommand constructor",
)

// ExpireCartsCommand discards carts left idle for longer than the cart TTL at Now.
type ExpireCartsCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

// NewExpireCartsCommand creates a cart expiry run evaluated at now.
// Returns an error if now is the zero time.
func NewExpireCartsCommand(now time.Time) (ExpireCartsCommand, error) {
	if now.IsZero() {
		return ExpireCartsCommand{}, errs.NewValueIsRequiredError("now")
	}
	return ExpireCartsCommand{now: now, guard: guard.NewConstructorGuard()}, nil
}

func (c ExpireCartsCommand) Validate() error {
	return c.guard.Validate(ErrExpireCartsCommandIsNotConstructed)
}

func (c ExpireCartsCommand) Now() time.Time {
	return c.now
}
