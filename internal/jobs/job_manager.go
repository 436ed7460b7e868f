package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"canteen/internal/core/application/usecases/commands"
	"canteen/internal/core/ports"
)

// Schedules are cron expressions with a leading seconds field.
type Schedules struct {
	PaymentTimeout    string
	CartExpiry        string
	NotificationPurge string
}

func DefaultSchedules() Schedules {
	return Schedules{
		PaymentTimeout:    "@every 30s",
		CartExpiry:        "@every 1m",
		NotificationPurge: "@every 5m",
	}
}

// Handlers are the sweep commands run by the jobs.
type Handlers struct {
	ExpirePendingPayments commands.ExpirePendingPaymentsCommandHandler
	ExpireCarts           commands.ExpireCartsCommandHandler
	PurgeNotifications    commands.PurgeNotificationsCommandHandler
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	paymentTimeoutJob    *PaymentTimeoutJob
	cartExpiryJob        *CartExpiryJob
	notificationPurgeJob *NotificationPurgeJob
}

// NewJobManager wires the background jobs to their command handlers.
// Schedules use six-field cron expressions with seconds.
func NewJobManager(handlers Handlers, schedules Schedules, clock ports.Clock, logger *slog.Logger) *JobManager {
	if clock == nil {
		clock = time.Now
	}
	return &JobManager{
		paymentTimeoutJob:    NewPaymentTimeoutJob(handlers.ExpirePendingPayments, schedules.PaymentTimeout, clock, logger),
		cartExpiryJob:        NewCartExpiryJob(handlers.ExpireCarts, schedules.CartExpiry, clock, logger),
		notificationPurgeJob: NewNotificationPurgeJob(handlers.PurgeNotifications, schedules.NotificationPurge, clock, logger),
	}
}

// StartAll starts all scheduled jobs. A job that fails to start stops the ones already
// running.
func (jm *JobManager) StartAll() error {
	if err := jm.paymentTimeoutJob.Start(); err != nil {
		return fmt.Errorf("failed to start payment timeout job: %w", err)
	}

	if err := jm.cartExpiryJob.Start(); err != nil {
		jm.paymentTimeoutJob.Stop()
		return fmt.Errorf("failed to start cart expiry job: %w", err)
	}

	if err := jm.notificationPurgeJob.Start(); err != nil {
		jm.cartExpiryJob.Stop()
		jm.paymentTimeoutJob.Stop()
		return fmt.Errorf("failed to start notification purge job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running sweeps.
func (jm *JobManager) StopAll() {
	jm.notificationPurgeJob.Stop()
	jm.cartExpiryJob.Stop()
	jm.paymentTimeoutJob.Stop()
}
