package memory

import (
	"context"
	"errors"
	"fmt"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
)

var ErrInvalidTransaction = errors.New("no transaction in progress")

// UnitOfWork buffers writes until Commit. Without Begin, writes go straight to the store.
type UnitOfWork struct {
	store  *Store
	active bool

	products map[kernel.UUID]*product.Product
	// productBase is the stored version a buffered product update was based on;
	// a product added in this unit of work has no entry.
	productBase map[kernel.UUID]int
	orders      map[kernel.UUID]*order.Order
	newOrders   map[kernel.UUID]bool

	tracked []*order.Order
	events  []order.StatusChanged
}

func newUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.active {
		return nil
	}
	u.active = true
	u.reset()
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if !u.active {
		return ErrInvalidTransaction
	}
	defer func() {
		u.active = false
		u.reset()
	}()

	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	if err := u.checkConflicts(); err != nil {
		return err
	}
	for id, p := range u.products {
		u.store.products[id] = p
	}
	for id, o := range u.orders {
		u.store.orders[id] = o
	}

	u.collectEvents()
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if !u.active {
		return ErrInvalidTransaction
	}
	u.active = false
	u.reset()
	return nil
}

func (u *UnitOfWork) ProductRepository() ports.ProductRepository {
	return &productRepository{uow: u}
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: u}
}

func (u *UnitOfWork) DomainEvents() []order.StatusChanged {
	return u.events
}

func (u *UnitOfWork) TrackAggregate(aggregate *order.Order) {
	u.tracked = append(u.tracked, aggregate)
}

// collectEvents moves the events of the written orders to the unit of work once they
// are durable.
func (u *UnitOfWork) collectEvents() {
	for _, o := range u.tracked {
		u.events = append(u.events, o.Events()...)
		o.ClearEvents()
	}
	u.tracked = nil
}

func (u *UnitOfWork) checkConflicts() error {
	for id, p := range u.products {
		stored, exists := u.store.products[id]
		base, isUpdate := u.productBase[id]
		switch {
		case !isUpdate && exists:
			return errs.NewObjectExistsError("product", id)
		case isUpdate && (!exists || stored.Version() != base):
			return errs.NewVersionIsInvalidErrorWithCause(
				"product", fmt.Errorf("%s was changed by another transaction", p.Name()),
			)
		}
	}
	for id := range u.newOrders {
		if _, exists := u.store.orders[id]; exists {
			return errs.NewObjectExistsError("order", id)
		}
	}
	return nil
}

func (u *UnitOfWork) reset() {
	u.products = make(map[kernel.UUID]*product.Product)
	u.productBase = make(map[kernel.UUID]int)
	u.orders = make(map[kernel.UUID]*order.Order)
	u.newOrders = make(map[kernel.UUID]bool)
	u.tracked = nil
}

// autocommit runs a single write outside an explicit transaction.
func (u *UnitOfWork) autocommit(write func() error) error {
	if u.active {
		return write()
	}

	u.active = true
	u.reset()
	if err := write(); err != nil {
		u.active = false
		u.reset()
		return err
	}
	return u.Commit(context.Background())
}
