package commands

import (
	"context"
	"fmt"
	"log/slog"

	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
)

// TransitionResult is the status an accepted transition reached.
type TransitionResult struct {
	Status      order.Status
	Description string
}

func resultOf(o *order.Order) TransitionResult {
	return TransitionResult{Status: o.Status(), Description: o.Status().Description()}
}

// StaffTransitionCommandHandler applies staff actions. Transitions of one order are
// serialized, the order is read again inside the lock, and the customer is notified
// after the commit.
//
// Example:
//
//	handler := NewStaffTransitionCommandHandler(uowFactory, stockManager, orderLocks, queue, clock, logger)
//	cmd, _ := NewStaffTransitionCommand(orderID, order.TriggerAccept, "north-block", "staff-7", 15)
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("transition failed: %w", err)
//	}
type StaffTransitionCommandHandler struct {
	uowFactory    UoWFactory
	stock         StockReserver
	orders        KeyLocker
	notifications ports.NotificationQueue
	clock         ports.Clock
	logger        *slog.Logger
}

// NewStaffTransitionCommandHandler creates a handler for kitchen actions.
// The notification queue receives one message per applied transition.
func NewStaffTransitionCommandHandler(
	uowFactory UoWFactory,
	stock StockReserver,
	orders KeyLocker,
	notifications ports.NotificationQueue,
	clock ports.Clock,
	logger *slog.Logger,
) StaffTransitionCommandHandler {
	return StaffTransitionCommandHandler{
		uowFactory:    uowFactory,
		stock:         stock,
		orders:        orders,
		notifications: notifications,
		clock:         nowOr(clock),
		logger:        loggerOr(logger),
	}
}

// Handle applies the trigger to an order of the staff member's facility. A trigger the
// current status does not allow yields an InvalidTransitionError. A decline releases
// the order's stock within the same transaction.
func (h *StaffTransitionCommandHandler) Handle(ctx context.Context, cmd StaffTransitionCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	unlock := h.orders.Lock(cmd.OrderID().String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return TransitionResult{}, err
	}
	if o.Facility() != cmd.Facility() {
		return TransitionResult{}, errs.NewPermissionDeniedError(
			fmt.Sprintf("order %s belongs to another facility", o.ID()),
		)
	}

	var opts []order.ApplyOption
	if cmd.EstimatedReadyMinutes() > 0 {
		opts = append(opts, order.WithEstimatedReadyMinutes(cmd.EstimatedReadyMinutes()))
	}

	release, err := applyTransition(ctx, uow, h.stock, o, cmd.Trigger(), h.clock(), opts...)
	defer release()
	if err != nil {
		return TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	h.logger.InfoContext(ctx, "order transitioned",
		"order_id", o.ID().String(),
		"trigger", cmd.Trigger().String(),
		"status", o.Status().String(),
		"staff", cmd.StaffID(),
	)
	publish(ctx, h.notifications, h.logger, uow.DomainEvents())
	return resultOf(o), nil
}
