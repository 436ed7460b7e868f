package ports

import (
	"context"
	"time"

	"canteen/internal/core/domain/model/cart"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/notification"
)

// Clock returns the current time. Handlers take one so tests can pin time.
type Clock func() time.Time

// CartStore keeps session carts. Implementations return copies, so a cart read and
// mutated by a failing command never changes the stored cart. Callers serialize
// access per session.
type CartStore interface {
	// Get returns the session's cart or an errs.ObjectNotFoundError for param "cart".
	Get(ctx context.Context, session string) (*cart.Cart, error)
	Save(ctx context.Context, c *cart.Cart) error
	Delete(ctx context.Context, session string) error

	// ListIdle returns the sessions whose cart was last touched before cutoff.
	ListIdle(ctx context.Context, cutoff time.Time) ([]string, error)
}

// NotificationQueue buffers status-change events per recipient until dismissed or expired.
type NotificationQueue interface {
	Publish(ctx context.Context, event notification.Event) error

	// Poll returns the visible events of the recipient oldest first without removing them.
	Poll(ctx context.Context, recipient kernel.Phone) ([]notification.Event, error)

	// Dismiss hides every event of the recipient about orderID. Dismissing twice is a no-op.
	Dismiss(ctx context.Context, recipient kernel.Phone, orderID kernel.UUID) error

	// Purge drops dismissed and expired events and returns how many were removed.
	Purge(ctx context.Context, now time.Time) (int, error)
}

// RateLimiter is admission control with a fixed window counter per identity and operation.
type RateLimiter interface {
	// Allow counts one attempt. When the window is exhausted it returns false and the
	// time left until the window resets.
	Allow(ctx context.Context, identity, operation string) (bool, time.Duration, error)
}
