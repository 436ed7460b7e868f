package memory

import (
	"context"
	"slices"
	"strings"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/product"
	"canteen/internal/pkg/errs"
)

type productRepository struct {
	uow *UnitOfWork
}

func (r *productRepository) Add(_ context.Context, aggregate *product.Product) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.autocommit(func() error {
		r.uow.products[aggregate.ID()] = cloneProduct(aggregate)
		return nil
	})
}

func (r *productRepository) Update(_ context.Context, aggregate *product.Product) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.autocommit(func() error {
		current, ok := r.lookup(aggregate.ID())
		if !ok {
			return errs.NewObjectNotFoundError("product", aggregate.ID().String())
		}
		if current.Version() != aggregate.Version() {
			return errs.NewVersionIsInvalidError("product")
		}

		if _, buffered := r.uow.products[aggregate.ID()]; !buffered {
			r.uow.productBase[aggregate.ID()] = current.Version()
		}
		aggregate.AdvanceVersion()
		r.uow.products[aggregate.ID()] = cloneProduct(aggregate)
		return nil
	})
}

func (r *productRepository) Get(_ context.Context, id kernel.UUID) (*product.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	p, ok := r.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("product", id.String())
	}
	return cloneProduct(p), nil
}

func (r *productRepository) GetMany(ctx context.Context, ids []kernel.UUID) ([]*product.Product, error) {
	products := make([]*product.Product, 0, len(ids))
	for _, id := range ids {
		p, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *productRepository) ListByFacility(_ context.Context, facility string) ([]*product.Product, error) {
	r.uow.store.mu.RLock()
	var products []*product.Product
	for id, p := range r.uow.store.products {
		if _, buffered := r.uow.products[id]; !buffered && p.Facility() == facility {
			products = append(products, cloneProduct(p))
		}
	}
	r.uow.store.mu.RUnlock()

	for _, p := range r.uow.products {
		if p.Facility() == facility {
			products = append(products, cloneProduct(p))
		}
	}

	slices.SortFunc(products, func(a, b *product.Product) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return products, nil
}

// lookup reads through the write buffer to the store.
func (r *productRepository) lookup(id kernel.UUID) (*product.Product, bool) {
	if p, ok := r.uow.products[id]; ok {
		return p, true
	}
	r.uow.store.mu.RLock()
	defer r.uow.store.mu.RUnlock()
	p, ok := r.uow.store.products[id]
	return p, ok
}
