// Package stock is the stock reservation manager. It is the only code that changes a
// product's stock count: cart mutations reserve and release through TryReserve, order
// cancellation releases through Adjust inside the caller's unit of work.
//
// Every adjustment of a product happens while its key is held in the manager's
// keylock.Locker; the repository's version check catches writers that bypass it.
package stock

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/keylock"
)

// Manager serializes stock adjustments per product.
type Manager struct {
	uowFactory ports.UnitOfWorkFactory
	locks      *keylock.Locker
}

// NewManager creates a stock manager over the product repository.
// Returns an error if uowFactory is nil.
func NewManager(uowFactory ports.UnitOfWorkFactory) (*Manager, error) {
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	return &Manager{uowFactory: uowFactory, locks: keylock.New()}, nil
}

// Lock holds the given products until the returned function is called. Callers that
// adjust stock inside their own unit of work take it before Begin.
func (m *Manager) Lock(ids ...kernel.UUID) func() {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}
	return m.locks.LockMany(keys...)
}

// TryReserve moves delta units of the product out of stock (delta > 0) or back into it
// (delta < 0) in its own unit of work. ok is false, with nothing written, when the
// stock cannot cover the request. remaining is the stock count afterwards, or
// product.Unmanaged when the product is not stock managed.
func (m *Manager) TryReserve(ctx context.Context, id kernel.UUID, delta int) (bool, int, error) {
	unlock := m.Lock(id)
	defer unlock()

	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, 0, fmt.Errorf("begin stock transaction: %w", err)
	}
	defer func() { _ = uow.Rollback(ctx) }()

	ok, remaining, err := Adjust(ctx, uow.ProductRepository(), id, delta)
	if err != nil || !ok {
		return ok, remaining, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, 0, fmt.Errorf("commit stock transaction: %w", err)
	}
	return true, remaining, nil
}

// Shortage explains a refused TryReserve in terms the customer understands: the product
// is switched off, or its stock cannot cover requested. When the product can no longer be
// read the error carries the id and the remaining count TryReserve reported.
func (m *Manager) Shortage(ctx context.Context, id kernel.UUID, requested, remaining int) error {
	fallback := &product.InsufficientStockError{ProductID: id, Requested: requested, Remaining: remaining}

	uow := m.uowFactory.Create()
	p, err := uow.ProductRepository().Get(ctx, id)
	if err != nil {
		return fallback
	}
	if err = p.CanSupply(requested); err != nil {
		return err
	}
	fallback.Name = p.Name()
	return fallback
}

// TryReserveMany applies every delta in one unit of work or none of them. The first
// product that cannot be adjusted is reported as an *product.InsufficientStockError.
func (m *Manager) TryReserveMany(ctx context.Context, deltas map[kernel.UUID]int) error {
	if len(deltas) == 0 {
		return nil
	}

	unlock := m.Lock(keysOf(deltas)...)
	defer unlock()

	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin stock transaction: %w", err)
	}
	defer func() { _ = uow.Rollback(ctx) }()

	if err := AdjustMany(ctx, uow.ProductRepository(), deltas); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("commit stock transaction: %w", err)
	}
	return nil
}

// Adjust applies delta to one product through repo. The caller holds the product lock
// and owns the transaction repo is bound to.
func Adjust(ctx context.Context, repo ports.ProductRepository, id kernel.UUID, delta int) (bool, int, error) {
	p, err := repo.Get(ctx, id)
	if err != nil {
		return false, 0, err
	}

	ok, remaining, err := p.Reserve(delta)
	if err != nil || !ok {
		return ok, remaining, err
	}
	if !p.IsStockManaged() {
		return true, product.Unmanaged, nil
	}

	if err = repo.Update(ctx, p); err != nil {
		return false, 0, err
	}
	return true, remaining, nil
}

// AdjustMany validates every delta against the current stock before writing any of
// them. Products are processed in id order.
func AdjustMany(ctx context.Context, repo ports.ProductRepository, deltas map[kernel.UUID]int) error {
	ids := make([]kernel.UUID, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b kernel.UUID) int {
		return compareIDs(a, b)
	})

	products, err := repo.GetMany(ctx, ids)
	if err != nil {
		return err
	}

	changed := make([]*product.Product, 0, len(products))
	for _, p := range products {
		delta := deltas[p.ID()]
		ok, _, reserveErr := p.Reserve(delta)
		if reserveErr != nil {
			return reserveErr
		}
		if !ok {
			return product.NewInsufficientStockError(p, delta)
		}
		if p.IsStockManaged() {
			changed = append(changed, p)
		}
	}

	for _, p := range changed {
		if err = repo.Update(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Release is the negated quantities of an order or cart, ready for AdjustMany.
func Release(quantities map[kernel.UUID]int) map[kernel.UUID]int {
	deltas := make(map[kernel.UUID]int, len(quantities))
	for id, q := range quantities {
		if q != 0 {
			deltas[id] = -q
		}
	}
	return deltas
}

// IsRejected reports whether err is a stock outcome the caller should surface to the
// customer rather than treat as a failure of the system.
func IsRejected(err error) bool {
	return errors.Is(err, product.ErrInsufficientStock) || errors.Is(err, product.ErrProductUnavailable)
}

func keysOf(deltas map[kernel.UUID]int) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	return ids
}

func compareIDs(a, b kernel.UUID) int {
	switch {
	case a.String() < b.String():
		return -1
	case a.String() > b.String():
		return 1
	default:
		return 0
	}
}
