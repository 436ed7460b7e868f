package commands

import (
	"errors"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/pkg/guard"
)

var ErrCreateProductCommandIsNotConstructed = errors.New(
	"CreateProductCommand must be created via NewCreateProductCommand constructor",
)

// CreateProductCommand seeds one catalog entry. The product is validated here so a bad
// request never reaches the ledger.
type CreateProductCommand struct { //nolint:recvcheck //using for validation
	product *product.Product

	guard guard.ConstructorGuard
}

// NewCreateProductCommand creates a command holding a fully validated product.
// Validation is delegated to product.NewProduct.
func NewCreateProductCommand(
	id kernel.UUID,
	name string,
	facility string,
	price kernel.Money,
	stockManaged bool,
	stock int,
) (CreateProductCommand, error) {
	p, err := product.NewProduct(id, name, facility, price, stockManaged, stock)
	if err != nil {
		return CreateProductCommand{}, err
	}
	return CreateProductCommand{product: p, guard: guard.NewConstructorGuard()}, nil
}

func (c CreateProductCommand) Validate() error {
	return c.guard.Validate(ErrCreateProductCommandIsNotConstructed)
}

func (c CreateProductCommand) ProductID() kernel.UUID {
	return c.product.ID()
}

func (c CreateProductCommand) Product() *product.Product {
	return c.product
}
