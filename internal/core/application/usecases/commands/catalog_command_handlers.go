package commands

import (
	"context"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/product"
)

// ProductLocker holds product keys while a catalog write runs, so it cannot race a
// stock adjustment into a version conflict.
type ProductLocker interface {
	Lock(ids ...kernel.UUID) func()
}

// CreateProductCommandHandler adds a product to a facility menu.
//
// Example:
//
//	handler := NewCreateProductCommandHandler(uowFactory)
//	cmd, _ := NewCreateProductCommand(kernel.NewUUID(), "Masala Dosa", "north-block", price, true, 20)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("product creation failed: %w", err)
//	}
type CreateProductCommandHandler struct {
	uowFactory ProductUoWFactory
}

// NewCreateProductCommandHandler creates a handler for catalog additions.
// Requires a ProductUoWFactory for transactional persistence.
func NewCreateProductCommandHandler(uowFactory ProductUoWFactory) CreateProductCommandHandler {
	return CreateProductCommandHandler{uowFactory: uowFactory}
}

// Handle persists the product within a transaction. A product id that is already
// stored yields an ObjectExistsError.
func (h *CreateProductCommandHandler) Handle(ctx context.Context, cmd CreateProductCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.ProductRepository().Add(ctx, cmd.Product()); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// ChangeProductPriceCommandHandler changes the catalog price. Carts and placed orders
// keep the price they were priced with.
type ChangeProductPriceCommandHandler struct {
	editor productEditor
}

// NewChangeProductPriceCommandHandler creates a handler for price edits.
func NewChangeProductPriceCommandHandler(uowFactory ProductUoWFactory, locks ProductLocker) ChangeProductPriceCommandHandler {
	return ChangeProductPriceCommandHandler{editor: productEditor{uowFactory: uowFactory, locks: locks}}
}

// Handle loads the product under its key lock, changes the price and saves it.
func (h *ChangeProductPriceCommandHandler) Handle(ctx context.Context, cmd ChangeProductPriceCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.editor.edit(ctx, cmd.ProductID(), func(p *product.Product) error {
		return p.ChangePrice(cmd.Price())
	})
}

// SetProductAvailabilityCommandHandler switches a product on or off the menu.
type SetProductAvailabilityCommandHandler struct {
	editor productEditor
}

// NewSetProductAvailabilityCommandHandler creates a handler for availability switches.
func NewSetProductAvailabilityCommandHandler(
	uowFactory ProductUoWFactory,
	locks ProductLocker,
) SetProductAvailabilityCommandHandler {
	return SetProductAvailabilityCommandHandler{editor: productEditor{uowFactory: uowFactory, locks: locks}}
}

// Handle stores the new availability. Units already reserved by carts stay reserved.
func (h *SetProductAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetProductAvailabilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.editor.edit(ctx, cmd.ProductID(), func(p *product.Product) error {
		p.SetAvailable(cmd.Available())
		return nil
	})
}

type productEditor struct {
	uowFactory ProductUoWFactory
	locks      ProductLocker
}

func (e productEditor) edit(ctx context.Context, id kernel.UUID, mutate func(*product.Product) error) error {
	unlock := e.locks.Lock(id)
	defer unlock()

	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.ProductRepository().Get(ctx, id)
	if err != nil {
		return err
	}
	if err = mutate(p); err != nil {
		return err
	}
	if err = uow.ProductRepository().Update(ctx, p); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
