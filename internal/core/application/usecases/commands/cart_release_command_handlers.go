package commands

import (
	"context"
	"errors"
	"fmt"

	"canteen/internal/core/domain/model/cart"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
)

// DecreaseCartCommandHandler and RemoveFromCartCommandHandler give stock back before
// saving the smaller cart. If the stock write fails the stored cart is left as it was.
type DecreaseCartCommandHandler struct {
	releaser cartReleaser
}

// NewDecreaseCartCommandHandler creates a handler that takes one unit out of a cart line.
func NewDecreaseCartCommandHandler(
	carts ports.CartStore,
	stock StockReserver,
	sessions KeyLocker,
	clock ports.Clock,
) DecreaseCartCommandHandler {
	return DecreaseCartCommandHandler{releaser: cartReleaser{carts: carts, stock: stock, sessions: sessions, clock: nowOr(clock)}}
}

// Handle decreases the line by one unit and releases that unit. A line reaching zero
// is dropped, and an empty cart is deleted.
func (h *DecreaseCartCommandHandler) Handle(ctx context.Context, cmd DecreaseCartCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.releaser.release(ctx, cmd.Session(), cmd.ProductID(), func(c *cart.Cart) (int, error) {
		return 1, c.Decrease(cmd.ProductID(), h.releaser.clock())
	})
}

// RemoveFromCartCommandHandler drops a whole cart line.
//
// Example:
//
//	handler := NewRemoveFromCartCommandHandler(carts, stockManager, sessionLocks, clock)
//	cmd, _ := NewRemoveFromCartCommand("session-42", dosaID)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("remove from cart failed: %w", err)
//	}
type RemoveFromCartCommandHandler struct {
	releaser cartReleaser
}

// NewRemoveFromCartCommandHandler creates a handler for removing cart lines.
// A nil clock falls back to time.Now.
func NewRemoveFromCartCommandHandler(
	carts ports.CartStore,
	stock StockReserver,
	sessions KeyLocker,
	clock ports.Clock,
) RemoveFromCartCommandHandler {
	return RemoveFromCartCommandHandler{releaser: cartReleaser{carts: carts, stock: stock, sessions: sessions, clock: nowOr(clock)}}
}

// Handle removes the line and releases every unit it held.
func (h *RemoveFromCartCommandHandler) Handle(ctx context.Context, cmd RemoveFromCartCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.releaser.release(ctx, cmd.Session(), cmd.ProductID(), func(c *cart.Cart) (int, error) {
		return c.Remove(cmd.ProductID(), h.releaser.clock())
	})
}

type cartReleaser struct {
	carts    ports.CartStore
	stock    StockReserver
	sessions KeyLocker
	clock    ports.Clock
}

// release shrinks the cart with mutate, which reports how many units it took out.
func (r cartReleaser) release(
	ctx context.Context,
	session string,
	productID kernel.UUID,
	mutate func(*cart.Cart) (int, error),
) error {
	unlock := r.sessions.Lock(session)
	defer unlock()

	c, err := r.carts.Get(ctx, session)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return errs.NewObjectNotFoundError("cart item", productID.String())
	}
	if err != nil {
		return err
	}

	quantity, err := mutate(c)
	if err != nil {
		return err
	}

	if _, _, err = r.stock.TryReserve(ctx, productID, -quantity); err != nil {
		return err
	}

	if c.IsEmpty() {
		err = r.carts.Delete(ctx, session)
	} else {
		err = r.carts.Save(ctx, c)
	}
	if err != nil {
		if _, _, reserveErr := r.stock.TryReserve(ctx, productID, quantity); reserveErr != nil {
			err = errors.Join(err, fmt.Errorf("restore reservation: %w", reserveErr))
		}
		return err
	}
	return nil
}
