package commands

import (
	"errors"
	"time"

	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var ErrExpirePendingPaymentsCommandIsNotConstructed = errors.New(
	"ExpirePendingPaymentsCommand must be created via NewExpirePendingPaymentsCommand constructor",
)

// ExpirePendingPaymentsCommand cancels online orders whose payment window ended before Now.
type ExpirePendingPaymentsCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

// NewExpirePendingPaymentsCommand creates a payment timeout run evaluated at now.
func NewExpirePendingPaymentsCommand(now time.Time) (ExpirePendingPaymentsCommand, error) {
	if now.IsZero() {
		return ExpirePendingPaymentsCommand{}, errs.NewValueIsRequiredError("now")
	}
	return ExpirePendingPaymentsCommand{now: now, guard: guard.NewConstructorGuard()}, nil
}

func (c ExpirePendingPaymentsCommand) Validate() error {
	return c.guard.Validate(ErrExpirePendingPaymentsCommandIsNotConstructed)
}

func (c ExpirePendingPaymentsCommand) Now() time.Time {
	return c.now
}
