package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/pkg/errs"
)

const expireConcurrency = 8

// ExpirePendingPaymentsCommandHandler cancels orders stuck in PaymentPending and gives
// their stock back. It runs from the payment timeout job, and queries call ExpireOrder
// so an overdue order is never reported as still awaiting payment.
type ExpirePendingPaymentsCommandHandler struct {
	uowFactory    UoWFactory
	stock         StockReserver
	orders        KeyLocker
	paymentWindow time.Duration
	logger        *slog.Logger
}

// NewExpirePendingPaymentsCommandHandler creates the handler behind the payment
// timeout job. Orders waiting longer than paymentWindow are cancelled.
func NewExpirePendingPaymentsCommandHandler(
	uowFactory UoWFactory,
	stock StockReserver,
	orders KeyLocker,
	paymentWindow time.Duration,
	logger *slog.Logger,
) ExpirePendingPaymentsCommandHandler {
	return ExpirePendingPaymentsCommandHandler{
		uowFactory:    uowFactory,
		stock:         stock,
		orders:        orders,
		paymentWindow: paymentWindow,
		logger:        loggerOr(logger),
	}
}

// Handle returns how many orders were cancelled. An order that fails to expire is
// logged and left for the next run.
func (h *ExpirePendingPaymentsCommandHandler) Handle(ctx context.Context, cmd ExpirePendingPaymentsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	ids, err := uow.OrderRepository().ListPaymentPendingBefore(ctx, cmd.Now().Add(-h.paymentWindow))
	if err != nil {
		return 0, err
	}

	var expired atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(expireConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			ok, expireErr := h.ExpireOrder(gctx, id, cmd.Now())
			if expireErr != nil {
				h.logger.ErrorContext(gctx, "failed to expire pending payment",
					"order_id", id.String(), "error", expireErr)
				return nil
			}
			if ok {
				expired.Add(1)
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return int(expired.Load()), err
	}
	return int(expired.Load()), nil
}

// ExpireOrder cancels one order if its payment is still overdue at now. It reports
// false when another writer already moved the order on.
func (h *ExpirePendingPaymentsCommandHandler) ExpireOrder(ctx context.Context, id kernel.UUID, now time.Time) (bool, error) {
	unlock := h.orders.Lock(id.String())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !o.IsPaymentOverdue(now, h.paymentWindow) {
		return false, nil
	}

	release, err := applyTransition(ctx, uow, h.stock, o, order.TriggerPaymentFailed, now)
	defer release()
	if err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.logger.InfoContext(ctx, "pending payment expired", "order_id", id.String())
	return true, nil
}
