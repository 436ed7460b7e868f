package commands

import (
	"context"
	"errors"
	"log/slog"

	"canteen/internal/core/domain/model/cart"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/domain/services"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
)

// PlacedOrder is what checkout reports back to the customer.
type PlacedOrder struct {
	ID          kernel.UUID
	Status      order.Status
	Description string
	Total       kernel.Money
}

// PlaceOrderCommandHandler materializes the session cart into the ledger. The stock of
// the cart lines is already held by the cart and moves to the order unchanged; the cart
// is discarded once the order is committed.
//
// Example:
//
//	handler := NewPlaceOrderCommandHandler(uowFactory, carts, sessionLocks, clock, logger)
//	cmd, _ := NewPlaceOrderCommand(kernel.NewUUID(), "session-42", phone, "Asha", "north-block", order.Cash)
//
//	placed, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("checkout failed: %w", err)
//	}
//	// placed.Status is PaymentPending for online orders and Placed for cash
type PlaceOrderCommandHandler struct {
	uowFactory   UoWFactory
	carts        ports.CartStore
	sessions     KeyLocker
	materializer *services.OrderMaterializer
	clock        ports.Clock
	logger       *slog.Logger
}

// NewPlaceOrderCommandHandler creates a handler for checkout.
// Requires a UoWFactory so the order and its stock changes commit together.
func NewPlaceOrderCommandHandler(
	uowFactory UoWFactory,
	carts ports.CartStore,
	sessions KeyLocker,
	clock ports.Clock,
	logger *slog.Logger,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory:   uowFactory,
		carts:        carts,
		sessions:     sessions,
		materializer: services.NewOrderMaterializer(),
		clock:        nowOr(clock),
		logger:       loggerOr(logger),
	}
}

// Handle prices the cart, persists the order and deletes the cart. A missing or empty
// cart yields cart.ErrEmptyCart and a switched off line a product.UnavailableError. An
// order id that is already stored yields an ObjectExistsError and the cart is kept.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (PlacedOrder, error) {
	if err := cmd.Validate(); err != nil {
		return PlacedOrder{}, err
	}

	unlock := h.sessions.Lock(cmd.Session())
	defer unlock()

	c, err := h.carts.Get(ctx, cmd.Session())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return PlacedOrder{}, cart.ErrEmptyCart
	}
	if err != nil {
		return PlacedOrder{}, err
	}
	if c.IsEmpty() {
		return PlacedOrder{}, cart.ErrEmptyCart
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return PlacedOrder{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	products, err := uow.ProductRepository().GetMany(ctx, c.ProductIDs())
	if err != nil {
		return PlacedOrder{}, err
	}

	o, err := h.materializer.Materialize(c, products, services.Checkout{
		OrderID:       cmd.OrderID(),
		Customer:      cmd.Customer(),
		CustomerName:  cmd.CustomerName(),
		Facility:      cmd.Facility(),
		PaymentMethod: cmd.PaymentMethod(),
	}, h.clock())
	if err != nil {
		return PlacedOrder{}, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return PlacedOrder{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return PlacedOrder{}, err
	}

	if err = h.carts.Delete(ctx, cmd.Session()); err != nil {
		h.logger.ErrorContext(ctx, "failed to discard cart after checkout",
			"session", cmd.Session(), "order_id", o.ID().String(), "error", err)
	}

	return PlacedOrder{
		ID:          o.ID(),
		Status:      o.Status(),
		Description: o.Status().Description(),
		Total:       o.Total(),
	}, nil
}
