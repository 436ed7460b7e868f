package commands

import (
	"errors"
	"fmt"
	"strings"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var ErrStaffTransitionCommandIsNotConstructed = errors.New(
	"StaffTransitionCommand must be created via NewStaffTransitionCommand constructor",
)

// StaffTransitionCommand is a fulfillment action by staff of a facility: accept,
// decline, mark ready or mark completed.
type StaffTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID               kernel.UUID
	trigger               order.Trigger
	facility              string
	staffID               string
	estimatedReadyMinutes int

	guard guard.ConstructorGuard
}

// NewStaffTransitionCommand creates a kitchen action on an order.
// Only staff triggers are accepted and estimatedReadyMinutes must lie in
// 0..order.MaxEstimatedReadyMinutes. It is read only by TriggerAccept.
func NewStaffTransitionCommand(
	orderID kernel.UUID,
	trigger order.Trigger,
	facility string,
	staffID string,
	estimatedReadyMinutes int,
) (StaffTransitionCommand, error) {
	var triggerErr, facilityErr, staffErr, etaErr error
	if !trigger.IsStaffTrigger() {
		triggerErr = errs.NewValueIsInvalidErrorWithCause("trigger", fmt.Errorf("%s is not a staff action", trigger))
	}
	if strings.TrimSpace(facility) == "" {
		facilityErr = errs.NewValueIsRequiredError("facility")
	}
	if strings.TrimSpace(staffID) == "" {
		staffErr = errs.NewValueIsRequiredError("staff")
	}
	if estimatedReadyMinutes < 0 || estimatedReadyMinutes > order.MaxEstimatedReadyMinutes {
		etaErr = errs.NewValueIsOutOfRangeError(
			"estimated ready minutes", estimatedReadyMinutes, 0, order.MaxEstimatedReadyMinutes,
		)
	}

	if err := errors.Join(orderID.Validate(), triggerErr, facilityErr, staffErr, etaErr); err != nil {
		return StaffTransitionCommand{}, err
	}

	return StaffTransitionCommand{
		orderID:               orderID,
		trigger:               trigger,
		facility:              strings.TrimSpace(facility),
		staffID:               strings.TrimSpace(staffID),
		estimatedReadyMinutes: estimatedReadyMinutes,
		guard:                 guard.NewConstructorGuard(),
	}, nil
}

func (c StaffTransitionCommand) Validate() error {
	return c.guard.Validate(ErrStaffTransitionCommandIsNotConstructed)
}

func (c StaffTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c StaffTransitionCommand) Trigger() order.Trigger {
	return c.trigger
}

func (c StaffTransitionCommand) Facility() string {
	return c.facility
}

func (c StaffTransitionCommand) StaffID() string {
	return c.staffID
}

// EstimatedReadyMinutes is zero when staff gave no estimate.
func (c StaffTransitionCommand) EstimatedReadyMinutes() int {
	return c.estimatedReadyMinutes
}
