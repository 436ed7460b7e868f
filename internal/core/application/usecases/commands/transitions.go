package commands

import (
	"context"
	"log/slog"
	"time"

	"canteen/internal/core/application/stock"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/notification"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/ports"
)

func noop() {}

// applyTransition applies trigger to o and writes it through uow. When the new status
// gives the reservation back, the order's products stay locked until the returned
// release function runs, which the caller defers past Commit.
func applyTransition(
	ctx context.Context,
	uow UoW,
	stocks StockReserver,
	o *order.Order,
	trigger order.Trigger,
	now time.Time,
	opts ...order.ApplyOption,
) (func(), error) {
	if err := o.Apply(trigger, now, opts...); err != nil {
		return noop, err
	}

	release := noop
	if o.Status().ReleasesStock() {
		quantities := o.Quantities()
		ids := make([]kernel.UUID, 0, len(quantities))
		for id := range quantities {
			ids = append(ids, id)
		}
		release = stocks.Lock(ids...)

		if err := stock.AdjustMany(ctx, uow.ProductRepository(), stock.Release(quantities)); err != nil {
			return release, err
		}
	}

	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return release, err
	}
	return release, nil
}

// publish hands committed status changes to the notification queue. The transition is
// already durable, so a failed publish is logged and not returned.
func publish(ctx context.Context, queue ports.NotificationQueue, logger *slog.Logger, events []order.StatusChanged) {
	for _, change := range events {
		event, err := notification.FromStatusChange(change)
		if err == nil {
			err = queue.Publish(ctx, event)
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to publish notification",
				"order_id", change.OrderID.String(),
				"status", change.Status.String(),
				"error", err,
			)
		}
	}
}

func loggerOr(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
