package jobs

import (
	"context"
	"log/slog"

	"canteen/internal/core/application/usecases/commands"
	"canteen/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// CartExpiryJob discards carts left idle past their TTL and releases the stock they held.
type CartExpiryJob struct {
	handler  commands.ExpireCartsCommandHandler
	schedule string
	clock    ports.Clock
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewCartExpiryJob creates a job that returns the stock of abandoned carts on schedule.
func NewCartExpiryJob(
	handler commands.ExpireCartsCommandHandler,
	schedule string,
	clock ports.Clock,
	logger *slog.Logger,
) *CartExpiryJob {
	return &CartExpiryJob{
		handler:  handler,
		schedule: schedule,
		clock:    clock,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "cart_expiry_job"),
	}
}

func (j *CartExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Cart expiry job started", "schedule", j.schedule)
	return nil
}

func (j *CartExpiryJob) Run(ctx context.Context) {
	cmd, err := commands.NewExpireCartsCommand(j.clock())
	if err != nil {
		j.logger.ErrorContext(ctx, "Cart expiry job failed", "error", err)
		return
	}

	expired, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Cart expiry job failed", "error", err, "expired", expired)
		return
	}
	if expired > 0 {
		j.logger.InfoContext(ctx, "Expired idle carts", "expired", expired)
	}
}

func (j *CartExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Cart expiry job stopped")
}
