package jobs

import (
	"context"
	"log/slog"

	"canteen/internal/core/application/usecases/commands"
	"canteen/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// NotificationPurgeJob drops notifications older than their TTL together with expired
// rate limit counters.
type NotificationPurgeJob struct {
	handler  commands.PurgeNotificationsCommandHandler
	schedule string
	clock    ports.Clock
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewNotificationPurgeJob creates a job that drops expired notifications on schedule.
func NewNotificationPurgeJob(
	handler commands.PurgeNotificationsCommandHandler,
	schedule string,
	clock ports.Clock,
	logger *slog.Logger,
) *NotificationPurgeJob {
	return &NotificationPurgeJob{
		handler:  handler,
		schedule: schedule,
		clock:    clock,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "notification_purge_job"),
	}
}

func (j *NotificationPurgeJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification purge job started", "schedule", j.schedule)
	return nil
}

func (j *NotificationPurgeJob) Run(ctx context.Context) {
	cmd, err := commands.NewPurgeNotificationsCommand(j.clock())
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification purge job failed", "error", err)
		return
	}

	removed, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification purge job failed", "error", err)
		return
	}
	j.logger.DebugContext(ctx, "Purged notifications", "removed", removed)
}

func (j *NotificationPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notification purge job stopped")
}
