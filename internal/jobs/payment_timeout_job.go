package jobs

import (
	"context"
	"log/slog"

	"canteen/internal/core/application/usecases/commands"
	"canteen/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// PaymentTimeoutJob cancels online orders whose payment window has passed and returns
// their stock to the catalog.
type PaymentTimeoutJob struct {
	handler  commands.ExpirePendingPaymentsCommandHandler
	schedule string
	clock    ports.Clock
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewPaymentTimeoutJob creates a job that cancels orders whose payment window passed.
// It is the eager counterpart of the lazy timeout applied by order queries.
func NewPaymentTimeoutJob(
	handler commands.ExpirePendingPaymentsCommandHandler,
	schedule string,
	clock ports.Clock,
	logger *slog.Logger,
) *PaymentTimeoutJob {
	return &PaymentTimeoutJob{
		handler:  handler,
		schedule: schedule,
		clock:    clock,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "payment_timeout_job"),
	}
}

func (j *PaymentTimeoutJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Payment timeout job started", "schedule", j.schedule)
	return nil
}

// Run performs a single sweep.
func (j *PaymentTimeoutJob) Run(ctx context.Context) {
	cmd, err := commands.NewExpirePendingPaymentsCommand(j.clock())
	if err != nil {
		j.logger.ErrorContext(ctx, "Payment timeout job failed", "error", err)
		return
	}

	expired, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Payment timeout job failed", "error", err, "expired", expired)
		return
	}
	if expired > 0 {
		j.logger.InfoContext(ctx, "Cancelled orders with overdue payment", "expired", expired)
	}
}

// Stop waits for a running sweep to finish.
func (j *PaymentTimeoutJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Payment timeout job stopped")
}
