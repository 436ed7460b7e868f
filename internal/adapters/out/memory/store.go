// Package memory is the in-process ledger used when no database is configured and in
// fast tests. A Store holds committed products and orders; each UnitOfWork buffers its
// writes and applies them to the store atomically on Commit, checking product versions
// the same way the postgres adapter does.
package memory

import (
	"sync"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/core/ports"
)

// Store holds committed state. Aggregates are stored as private copies.
type Store struct {
	mu       sync.RWMutex
	products map[kernel.UUID]*product.Product
	orders   map[kernel.UUID]*order.Order
}

// NewStore creates an empty ledger.
func NewStore() *Store {
	return &Store{
		products: make(map[kernel.UUID]*product.Product),
		orders:   make(map[kernel.UUID]*order.Order),
	}
}

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

// NewUnitOfWorkFactory creates units of work that commit into store.
func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return newUnitOfWork(f.store)
}

// cloneProduct copies a product that already passed validation, so restoring it cannot fail.
func cloneProduct(p *product.Product) *product.Product {
	clone, _ := product.RestoreProduct(
		p.ID(), p.Name(), p.Facility(), p.Price(), p.IsAvailable(),
		p.IsStockManaged(), p.StockCount(), p.StockCapacity(), p.Version(),
	)
	return clone
}

func cloneOrder(o *order.Order) *order.Order {
	return order.RestoreOrder(
		o.ID(), o.Customer(), o.CustomerName(), o.Facility(), o.Status(),
		o.PaymentMethod(), o.PaymentStatus(), o.PaymentReference(), o.EstimatedReadyMinutes(),
		o.Items(), o.CreatedAt(), o.UpdatedAt(), o.IsRetired(),
	)
}
