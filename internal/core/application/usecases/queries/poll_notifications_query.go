package queries

import (
	"context"
	"errors"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/guard"
)

var ErrPollNotificationsQueryIsNotConstructed = errors.New(
	"PollNotificationsQuery must be created via NewPollNotificationsQuery constructor",
)

// PollNotificationsQuery reads the pending status updates of a customer. Polling does
// not consume them; the customer dismisses them per order.
type PollNotificationsQuery struct {
	recipient kernel.Phone

	guard guard.ConstructorGuard
}

// NewPollNotificationsQuery creates a query for the notifications of a customer.
func NewPollNotificationsQuery(recipient kernel.Phone) (PollNotificationsQuery, error) {
	if err := recipient.Validate(); err != nil {
		return PollNotificationsQuery{}, err
	}
	return PollNotificationsQuery{recipient: recipient, guard: guard.NewConstructorGuard()}, nil
}

func (q PollNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrPollNotificationsQueryIsNotConstructed)
}

func (q PollNotificationsQuery) Recipient() kernel.Phone {
	return q.recipient
}

type NotificationView struct {
	OrderID    kernel.UUID
	Status     order.Status
	Message    string
	Persistent bool
	CreatedAt  time.Time
}

// PollNotificationsQueryHandler reads a customer's pending notifications.
//
// Example:
//
//	handler := NewPollNotificationsQueryHandler(queue)
//	query, _ := NewPollNotificationsQuery(phone)
//
//	views, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("poll failed: %w", err)
//	}
type PollNotificationsQueryHandler struct {
	notifications ports.NotificationQueue
}

// NewPollNotificationsQueryHandler creates a handler for notification polling.
func NewPollNotificationsQueryHandler(notifications ports.NotificationQueue) PollNotificationsQueryHandler {
	return PollNotificationsQueryHandler{notifications: notifications}
}

// Handle returns the live notifications oldest first.
func (h PollNotificationsQueryHandler) Handle(ctx context.Context, query PollNotificationsQuery) ([]NotificationView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	events, err := h.notifications.Poll(ctx, query.Recipient())
	if err != nil {
		return nil, err
	}

	views := make([]NotificationView, 0, len(events))
	for _, e := range events {
		views = append(views, NotificationView{
			OrderID:    e.OrderID(),
			Status:     e.Status(),
			Message:    e.Message(),
			Persistent: e.IsPersistent(),
			CreatedAt:  e.CreatedAt(),
		})
	}
	return views, nil
}
