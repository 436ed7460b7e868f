package commands

import (
	"context"
	"fmt"

	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
)

// RetireOrderCommandHandler hides a finished order from the facility listings.
type RetireOrderCommandHandler struct {
	uowFactory UoWFactory
	orders     KeyLocker
	clock      ports.Clock
}

// NewRetireOrderCommandHandler creates a handler for retiring orders.
func NewRetireOrderCommandHandler(uowFactory UoWFactory, orders KeyLocker, clock ports.Clock) RetireOrderCommandHandler {
	return RetireOrderCommandHandler{uowFactory: uowFactory, orders: orders, clock: nowOr(clock)}
}

// Handle retires the order if it belongs to the facility and is terminal.
func (h *RetireOrderCommandHandler) Handle(ctx context.Context, cmd RetireOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unlock := h.orders.Lock(cmd.OrderID().String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if o.Facility() != cmd.Facility() {
		return errs.NewPermissionDeniedError(fmt.Sprintf("order %s belongs to another facility", o.ID()))
	}
	if err = o.Retire(h.clock()); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
