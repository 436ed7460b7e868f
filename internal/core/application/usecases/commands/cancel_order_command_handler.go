package commands

import (
	"context"

	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels an order of the calling customer and gives its
// stock back in the same unit of work.
//
// Example:
//
//	handler := NewCancelOrderCommandHandler(uowFactory, stockManager, orderLocks, clock)
//	cmd, _ := NewCancelOrderCommand(orderID, phone)
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("cancellation failed: %w", err)
//	}
//	log.Printf("order is now %s", result.Status)
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	stock      StockReserver
	orders     KeyLocker
	clock      ports.Clock
}

// NewCancelOrderCommandHandler creates a handler for customer cancellations.
// Requires a UoWFactory so the order and its stock are written together.
func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	stock StockReserver,
	orders KeyLocker,
	clock ports.Clock,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory, stock: stock, orders: orders, clock: nowOr(clock)}
}

// Handle cancels the order when it belongs to the customer and its status still
// allows it. Another customer's order yields a PermissionDeniedError.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (TransitionResult, error) {
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
	if !o.Customer().IsEqual(cmd.Customer()) {
		return TransitionResult{}, errs.NewPermissionDeniedError("order was placed by another customer")
	}

	release, err := applyTransition(ctx, uow, h.stock, o, order.TriggerCancel, h.clock())
	defer release()
	if err != nil {
		return TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}
	return resultOf(o), nil
}
