package ports

import (
	"context"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
)

// OrderRepository is the persistence contract of the order ledger. Orders are never
// deleted; retired orders are hidden from the listings.
type OrderRepository interface {
	// Add persists a new order together with its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status, payment and retirement changes. Line items are immutable
	// and are not rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns the order or an errs.ObjectNotFoundError for param "order".
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListByCustomer returns the customer's orders, newest first.
	ListByCustomer(ctx context.Context, customer kernel.Phone) ([]*order.Order, error)

	// ListByFacility returns the facility's orders, oldest first. With activeOnly only
	// Paid, InProgress and Ready orders are returned.
	ListByFacility(ctx context.Context, facility string, activeOnly bool) ([]*order.Order, error)

	// ListPaymentPendingBefore returns the ids of PaymentPending orders created before cutoff.
	ListPaymentPendingBefore(ctx context.Context, cutoff time.Time) ([]kernel.UUID, error)
}
