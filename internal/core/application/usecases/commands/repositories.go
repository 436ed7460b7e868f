// Package commands contains the operations that change canteen state: cart mutations,
// checkout, payment, staff and customer transitions, housekeeping sweeps and catalog
// seeding. Every command is built through its constructor and validated again by its
// handler; handlers that write to the ledger run inside one unit of work.
package commands

import (
	"context"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/ports"
)

// Unit of work views the handlers depend on. The adapters' units of work satisfy all of
// them; the composition root bridges the factories.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// EventSource exposes the order status changes committed by a unit of work.
	EventSource interface {
		DomainEvents() []order.StatusChanged
	}

	// ProductUoW is used by catalog commands that only touch products.
	ProductUoW interface {
		TxManager
		ProductRepoFactory
	}

	ProductUoWFactory interface {
		Create() ProductUoW
	}

	// UoW spans orders and the stock of their products.
	UoW interface {
		TxManager
		ProductRepoFactory
		OrderRepoFactory
		EventSource
	}

	UoWFactory interface {
		Create() UoW
	}
)

// StockReserver is the stock reservation manager as seen by the handlers.
type StockReserver interface {
	Lock(ids ...kernel.UUID) func()
	TryReserve(ctx context.Context, id kernel.UUID, delta int) (bool, int, error)
	Shortage(ctx context.Context, id kernel.UUID, requested, remaining int) error
	TryReserveMany(ctx context.Context, deltas map[kernel.UUID]int) error
}

// KeyLocker serializes work per key, such as a session or an order id.
type KeyLocker interface {
	Lock(key string) func()
}

func nowOr(clock ports.Clock) ports.Clock {
	if clock == nil {
		return time.Now
	}
	return clock
}
