package commands

import (
	"errors"
	"time"

	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var ErrPurgeNotificationsCommandIsNotConstructed = errors.New(
	"PurgeNotificationsCommand must be created via NewPurgeNotificationsCommand constructor",
)

// PurgeNotificationsCommand drops dismissed and expired notifications as of Now.
type PurgeNotificationsCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

// NewPurgeNotificationsCommand creates a cleanup run evaluated at now.
func NewPurgeNotificationsCommand(now time.Time) (PurgeNotificationsCommand, error) {
	if now.IsZero() {
		return PurgeNotificationsCommand{}, errs.NewValueIsRequiredError("now")
	}
	return PurgeNotificationsCommand{now: now, guard: guard.NewConstructorGuard()}, nil
}

func (c PurgeNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrPurgeNotificationsCommandIsNotConstructed)
}

func (c PurgeNotificationsCommand) Now() time.Time {
	return c.now
}
