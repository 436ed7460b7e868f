// Package ports defines the contracts between the canteen core and its adapters.
package ports

import (
	"context"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/product"
)

// ProductRepository persists catalog entries.
type ProductRepository interface {
	Add(ctx context.Context, aggregate *product.Product) error

	// Update writes the product only if the stored version still equals
	// aggregate.Version(), then advances the aggregate's version. A stale write fails
	// with errs.ErrVersionIsInvalid.
	Update(ctx context.Context, aggregate *product.Product) error

	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// GetMany returns the products in the order of ids. A missing id is an
	// errs.ObjectNotFoundError.
	GetMany(ctx context.Context, ids []kernel.UUID) ([]*product.Product, error)

	// ListByFacility returns the menu of a facility ordered by name.
	ListByFacility(ctx context.Context, facility string) ([]*product.Product, error)
}
