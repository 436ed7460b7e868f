package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"canteen/internal/core/application/stock"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
)

// ExpireCartsCommandHandler returns the reservations of abandoned carts to stock.
type ExpireCartsCommandHandler struct {
	carts    ports.CartStore
	stock    StockReserver
	sessions KeyLocker
	ttl      time.Duration
	logger   *slog.Logger
}

// NewExpireCartsCommandHandler creates the handler behind the cart expiry job.
// Carts idle for longer than ttl are expired.
func NewExpireCartsCommandHandler(
	carts ports.CartStore,
	stock StockReserver,
	sessions KeyLocker,
	ttl time.Duration,
	logger *slog.Logger,
) ExpireCartsCommandHandler {
	return ExpireCartsCommandHandler{carts: carts, stock: stock, sessions: sessions, ttl: ttl, logger: loggerOr(logger)}
}

// Handle returns how many carts were expired. A cart that fails to expire is logged
// and retried on the next run.
func (h *ExpireCartsCommandHandler) Handle(ctx context.Context, cmd ExpireCartsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	sessions, err := h.carts.ListIdle(ctx, cmd.Now().Add(-h.ttl))
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, session := range sessions {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		ok, expireErr := h.expire(ctx, session, cmd.Now())
		if expireErr != nil {
			h.logger.ErrorContext(ctx, "failed to expire cart", "session", session, "error", expireErr)
			continue
		}
		if ok {
			expired++
		}
	}
	return expired, nil
}

func (h *ExpireCartsCommandHandler) expire(ctx context.Context, session string, now time.Time) (bool, error) {
	unlock := h.sessions.Lock(session)
	defer unlock()

	c, err := h.carts.Get(ctx, session)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	// The customer may have come back between listing and locking.
	if !c.IsExpired(now, h.ttl) {
		return false, nil
	}

	if err = h.stock.TryReserveMany(ctx, stock.Release(c.Quantities())); err != nil {
		return false, err
	}
	if err = h.carts.Delete(ctx, session); err != nil {
		return false, err
	}
	return true, nil
}
