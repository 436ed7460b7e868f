package memory

import (
	"context"
	"slices"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/pkg/errs"
)

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.autocommit(func() error {
		r.uow.orders[aggregate.ID()] = cloneOrder(aggregate)
		r.uow.newOrders[aggregate.ID()] = true
		r.uow.TrackAggregate(aggregate)
		return nil
	})
}

func (r *orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.autocommit(func() error {
		if _, ok := r.lookup(aggregate.ID()); !ok {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		r.uow.orders[aggregate.ID()] = cloneOrder(aggregate)
		r.uow.TrackAggregate(aggregate)
		return nil
	})
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	o, ok := r.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return cloneOrder(o), nil
}

func (r *orderRepository) ListByCustomer(_ context.Context, customer kernel.Phone) ([]*order.Order, error) {
	orders := r.filter(func(o *order.Order) bool {
		return o.Customer().IsEqual(customer)
	})
	slices.SortFunc(orders, func(a, b *order.Order) int {
		return b.CreatedAt().Compare(a.CreatedAt())
	})
	return orders, nil
}

func (r *orderRepository) ListByFacility(_ context.Context, facility string, activeOnly bool) ([]*order.Order, error) {
	orders := r.filter(func(o *order.Order) bool {
		return o.Facility() == facility && (!activeOnly || o.Status().IsActive())
	})
	slices.SortFunc(orders, func(a, b *order.Order) int {
		return a.CreatedAt().Compare(b.CreatedAt())
	})
	return orders, nil
}

func (r *orderRepository) ListPaymentPendingBefore(_ context.Context, cutoff time.Time) ([]kernel.UUID, error) {
	orders := r.filter(func(o *order.Order) bool {
		return o.Status() == order.PaymentPending && o.CreatedAt().Before(cutoff)
	})
	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids, nil
}

// filter returns copies of the non-retired orders matching keep, buffered writes included.
func (r *orderRepository) filter(keep func(*order.Order) bool) []*order.Order {
	var orders []*order.Order

	r.uow.store.mu.RLock()
	for id, o := range r.uow.store.orders {
		if _, buffered := r.uow.orders[id]; !buffered && !o.IsRetired() && keep(o) {
			orders = append(orders, cloneOrder(o))
		}
	}
	r.uow.store.mu.RUnlock()

	for _, o := range r.uow.orders {
		if !o.IsRetired() && keep(o) {
			orders = append(orders, cloneOrder(o))
		}
	}
	return orders
}

func (r *orderRepository) lookup(id kernel.UUID) (*order.Order, bool) {
	if o, ok := r.uow.orders[id]; ok {
		return o, true
	}
	r.uow.store.mu.RLock()
	defer r.uow.store.mu.RUnlock()
	o, ok := r.uow.store.orders[id]
	return o, ok
}
