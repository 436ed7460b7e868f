package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"canteen/internal/core/domain/model/cart"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
)

// AddToCartCommandHandler reserves one unit before the cart records it, so a cart
// never holds more than the stock could give. Mutations of one session are serialized.
//
// Example:
//
//	handler := NewAddToCartCommandHandler(carts, stockManager, sessionLocks, clock)
//	cmd, _ := NewAddToCartCommand("session-42", dosaID)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("add to cart failed: %w", err)
//	}
type AddToCartCommandHandler struct {
	carts    ports.CartStore
	stock    StockReserver
	sessions KeyLocker
	clock    ports.Clock
}

// NewAddToCartCommandHandler creates a handler for adding single units to a cart.
// A nil clock falls back to time.Now.
func NewAddToCartCommandHandler(
	carts ports.CartStore,
	stock StockReserver,
	sessions KeyLocker,
	clock ports.Clock,
) AddToCartCommandHandler {
	return AddToCartCommandHandler{carts: carts, stock: stock, sessions: sessions, clock: nowOr(clock)}
}

// Handle reserves one unit of the product and records it in the session cart, creating
// the cart on first use. A refused reservation returns an InsufficientStockError naming
// the product. If the cart cannot be saved the reservation is released again.
func (h *AddToCartCommandHandler) Handle(ctx context.Context, cmd AddToCartCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unlock := h.sessions.Lock(cmd.Session())
	defer unlock()

	now := h.clock()
	c, err := loadOrCreateCart(ctx, h.carts, cmd.Session(), now)
	if err != nil {
		return err
	}

	ok, remaining, err := h.stock.TryReserve(ctx, cmd.ProductID(), 1)
	if err != nil {
		return err
	}
	if !ok {
		return h.stock.Shortage(ctx, cmd.ProductID(), 1, remaining)
	}

	if err = c.Add(cmd.ProductID(), now); err == nil {
		err = h.carts.Save(ctx, c)
	}
	if err != nil {
		if _, _, releaseErr := h.stock.TryReserve(ctx, cmd.ProductID(), -1); releaseErr != nil {
			err = errors.Join(err, fmt.Errorf("release reservation: %w", releaseErr))
		}
		return err
	}
	return nil
}

func loadOrCreateCart(ctx context.Context, carts ports.CartStore, session string, now time.Time) (*cart.Cart, error) {
	c, err := carts.Get(ctx, session)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return cart.NewCart(session, now)
	}
	return c, err
}
