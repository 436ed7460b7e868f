// Package jobs runs the periodic sweeps of the canteen with github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. PaymentTimeoutJob - cancels online orders still waiting for payment after the payment window
// 2. CartExpiryJob - discards idle carts and releases the stock they reserved
// 3. NotificationPurgeJob - drops stale notifications and expired rate limit counters
//
// # Usage
//
//	jobManager := jobs.NewJobManager(handlers, jobs.DefaultSchedules(), time.Now, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed sweep is logged and retried on the next tick. Queries expire overdue orders
// on read as well, so a late payment sweep never exposes a stale PaymentPending order.
package jobs
