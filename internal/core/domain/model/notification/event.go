// Package notification holds the status-change events buffered for a customer until
// their client polls and dismisses them.
package notification

import (
	"errors"
	"strings"
	"time"

	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/pkg/errs"
)

// Event tells a recipient that one of their orders changed status. Non-persistent
// events expire after the queue retention; persistent ones wait for dismissal.
type Event struct {
	recipient  kernel.Phone
	orderID    kernel.UUID
	status     order.Status
	message    string
	persistent bool
	createdAt  time.Time
	dismissed  bool
}

// NewEvent creates a notification about an order status.
// Validates the recipient, order ID and status, and requires a non-blank message.
func NewEvent(
	recipient kernel.Phone,
	orderID kernel.UUID,
	status order.Status,
	message string,
	persistent bool,
	createdAt time.Time,
) (Event, error) {
	var messageErr error
	if strings.TrimSpace(message) == "" {
		messageErr = errs.NewValueIsRequiredError("message")
	}
	if err := errors.Join(recipient.Validate(), orderID.Validate(), status.Validate(), messageErr); err != nil {
		return Event{}, err
	}

	return Event{
		recipient:  recipient,
		orderID:    orderID,
		status:     status,
		message:    message,
		persistent: persistent,
		createdAt:  createdAt,
	}, nil
}

// FromStatusChange converts an order domain event into a notification for the customer.
func FromStatusChange(e order.StatusChanged) (Event, error) {
	return NewEvent(e.Customer, e.OrderID, e.Status, e.Message, e.Persistent, e.OccurredAt)
}

func (e Event) Recipient() kernel.Phone {
	return e.recipient
}

func (e Event) OrderID() kernel.UUID {
	return e.orderID
}

func (e Event) Status() order.Status {
	return e.status
}

func (e Event) Message() string {
	return e.message
}

func (e Event) IsPersistent() bool {
	return e.persistent
}

func (e Event) CreatedAt() time.Time {
	return e.createdAt
}

func (e Event) IsDismissed() bool {
	return e.dismissed
}

// Dismissed returns a copy of the event marked as dismissed.
func (e Event) Dismissed() Event {
	e.dismissed = true
	return e
}

// IsExpired reports whether a non-persistent event outlived the retention ttl.
func (e Event) IsExpired(now time.Time, ttl time.Duration) bool {
	return !e.persistent && now.Sub(e.createdAt) > ttl
}

// IsVisible reports whether Poll should still return the event.
func (e Event) IsVisible(now time.Time, ttl time.Duration) bool {
	return !e.dismissed && !e.IsExpired(now, ttl)
}
