package commands

import (
	"context"
	"time"

	"canteen/internal/core/ports"
)

// DismissNotificationCommandHandler drops the notifications of one order from a
// customer's queue.
type DismissNotificationCommandHandler struct {
	notifications ports.NotificationQueue
}

// NewDismissNotificationCommandHandler creates a handler for dismissals.
func NewDismissNotificationCommandHandler(notifications ports.NotificationQueue) DismissNotificationCommandHandler {
	return DismissNotificationCommandHandler{notifications: notifications}
}

// Handle dismisses every notification about the order. Dismissing nothing is not an error.
func (h *DismissNotificationCommandHandler) Handle(ctx context.Context, cmd DismissNotificationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.notifications.Dismiss(ctx, cmd.Recipient(), cmd.OrderID())
}

// SweepFunc drops expired admission-control state. The in-process rate limiter
// provides one; stores that expire keys themselves need none.
type SweepFunc func(now time.Time) int

// PurgeNotificationsCommandHandler drops expired notifications and runs the sweeps of
// admission-control state.
type PurgeNotificationsCommandHandler struct {
	notifications ports.NotificationQueue
	sweeps        []SweepFunc
}

// NewPurgeNotificationsCommandHandler creates the handler behind the cleanup job.
func NewPurgeNotificationsCommandHandler(
	notifications ports.NotificationQueue,
	sweeps ...SweepFunc,
) PurgeNotificationsCommandHandler {
	return PurgeNotificationsCommandHandler{notifications: notifications, sweeps: sweeps}
}

// Handle returns the number of notifications removed.
func (h *PurgeNotificationsCommandHandler) Handle(ctx context.Context, cmd PurgeNotificationsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	removed, err := h.notifications.Purge(ctx, cmd.Now())
	if err != nil {
		return 0, err
	}
	for _, sweep := range h.sweeps {
		sweep(cmd.Now())
	}
	return removed, nil
}
