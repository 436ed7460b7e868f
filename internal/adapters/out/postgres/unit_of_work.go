// Package postgres provides the GORM implementation of the canteen ledger's unit of
// work. A unit of work spans the product and order repositories, so checkout, payment
// and cancellation commit the order together with its stock changes or not at all.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.Commit(ctx); err != nil {
//	    return err
//	}
//	publish(uow.DomainEvents())
//
// Each UnitOfWork instance is meant for one goroutine and one business operation.
// Repositories obtained before Begin run their statements directly on the pool.
package postgres

import (
	"context"
	"fmt"

	"canteen/internal/adapters/out/postgres/orderrepo"
	"canteen/internal/adapters/out/postgres/productrepo"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances over one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory of PostgreSQL units of work.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh unit of work with its own transaction state and tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:      f.db,
		tracked: make([]*order.Order, 0),
	}
}

// GormUnitOfWork coordinates one database transaction. Orders written through it are
// tracked, and their status changes become available from DomainEvents once Commit
// succeeds. A rolled back unit of work hands out nothing.
type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	tracked []*order.Order
	events  []order.StatusChanged
}

// Begin starts the transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return fmt.Errorf("begin transaction: %w", err)
	}

	uow.tracked = uow.tracked[:0]
	return nil
}

// Commit makes the transaction durable and collects the events of the tracked orders.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.tracked = uow.tracked[:0]
		return err
	}

	for _, o := range uow.tracked {
		uow.events = append(uow.events, o.Events()...)
		o.ClearEvents()
	}
	uow.tracked = uow.tracked[:0]
	return nil
}

// Rollback discards the transaction. It returns gorm.ErrInvalidTransaction when none is
// open, which callers deferring it after Commit ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.tracked = uow.tracked[:0]
	return err
}

func (uow *GormUnitOfWork) ProductRepository() ports.ProductRepository {
	return productrepo.NewGormProductRepository(uow.conn())
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) DomainEvents() []order.StatusChanged {
	return uow.events
}

// TrackAggregate is called by the order repository for every order it writes.
func (uow *GormUnitOfWork) TrackAggregate(aggregate *order.Order) {
	uow.tracked = append(uow.tracked, aggregate)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// Migrate creates or updates the ledger tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&productrepo.ProductDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
	); err != nil {
		return fmt.Errorf("migrate ledger schema: %w", err)
	}
	return nil
}
