package commands

import (
	"context"
	"time"

	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/ports"
)

// ConfirmPaymentCommandHandler settles or fails a PaymentPending order. An order whose
// payment window already passed is cancelled first, so a late success is refused with
// the Cancelled status while a late failure report simply observes the cancellation.
//
// Example:
//
//	handler := NewConfirmPaymentCommandHandler(uowFactory, stockManager, orderLocks, secret, 15*time.Minute, clock)
//	cmd, _ := NewConfirmPaymentCommand(orderID, true, amount, "pay_123", signature)
//
//	status, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("payment callback refused (order %s): %w", status, err)
//	}
type ConfirmPaymentCommandHandler struct {
	uowFactory    UoWFactory
	stock         StockReserver
	orders        KeyLocker
	gatewaySecret string
	paymentWindow time.Duration
	clock         ports.Clock
}

// NewConfirmPaymentCommandHandler creates a handler for payment gateway callbacks.
// An empty gatewaySecret disables signature checks.
func NewConfirmPaymentCommandHandler(
	uowFactory UoWFactory,
	stock StockReserver,
	orders KeyLocker,
	gatewaySecret string,
	paymentWindow time.Duration,
	clock ports.Clock,
) ConfirmPaymentCommandHandler {
	return ConfirmPaymentCommandHandler{
		uowFactory:    uowFactory,
		stock:         stock,
		orders:        orders,
		gatewaySecret: gatewaySecret,
		paymentWindow: paymentWindow,
		clock:         nowOr(clock),
	}
}

// Handle applies the gateway result within a transaction and returns the status the
// order ended in. A success must carry the exact order total and a valid signature,
// otherwise a PaymentMismatchError leaves the order waiting. A failure releases stock.
func (h *ConfirmPaymentCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}

	unlock := h.orders.Lock(cmd.OrderID().String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Unknown, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return order.Unknown, err
	}

	now := h.clock()
	if o.IsPaymentOverdue(now, h.paymentWindow) {
		release, expireErr := applyTransition(ctx, uow, h.stock, o, order.TriggerPaymentFailed, now)
		defer release()
		if expireErr != nil {
			return order.Unknown, expireErr
		}
		if err = uow.Commit(ctx); err != nil {
			return order.Unknown, err
		}
		if !cmd.Success() {
			return o.Status(), nil
		}
		return o.Status(), &order.InvalidTransitionError{
			OrderID: o.ID(), Trigger: order.TriggerPaymentConfirmed, Current: o.Status(),
		}
	}

	// The payment timeout already cancelled it.
	if !cmd.Success() && o.Status() == order.Cancelled && o.PaymentStatus() == order.PaymentFailed {
		return o.Status(), nil
	}

	trigger := order.TriggerPaymentFailed
	var opts []order.ApplyOption
	if cmd.Success() {
		trigger = order.TriggerPaymentConfirmed
		if o.Status().CanApply(trigger) {
			if err = h.verify(o, cmd); err != nil {
				return o.Status(), err
			}
		}
		opts = append(opts, order.WithPaymentReference(cmd.Reference()))
	}

	release, err := applyTransition(ctx, uow, h.stock, o, trigger, now, opts...)
	defer release()
	if err != nil {
		return o.Status(), err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Unknown, err
	}
	return o.Status(), nil
}

func (h *ConfirmPaymentCommandHandler) verify(o *order.Order, cmd ConfirmPaymentCommand) error {
	if h.gatewaySecret != "" && !signatureMatches(h.gatewaySecret, cmd) {
		return order.NewPaymentMismatchError(o.ID(), "valid gateway signature", "invalid signature")
	}
	return o.VerifyPayment(cmd.Amount())
}
