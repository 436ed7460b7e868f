package ports

import (
	"context"

	"canteen/internal/core/domain/model/order"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained after Begin
// share its transaction; before Begin they read committed state directly.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	ProductRepository() ProductRepository
	OrderRepository() OrderRepository

	// DomainEvents returns the status changes raised by the orders written through
	// this unit of work. It is meant to be read after a successful Commit.
	DomainEvents() []order.StatusChanged
}
