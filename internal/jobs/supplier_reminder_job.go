package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SupplierReminderJob periodically nudges suppliers that have not reacted to
// a dispatched order. Runs the reminder sweep on a cron schedule.
type SupplierReminderJob struct {
	handler   commands.RemindPendingSuppliersCommandHandler
	cron      *cron.Cron
	schedule  string
	olderThan time.Duration
	logger    *slog.Logger
}

// NewSupplierReminderJob creates a job sweeping for entries older than the
// given threshold on the given cron schedule (standard five-field spec).
func NewSupplierReminderJob(
	handler commands.RemindPendingSuppliersCommandHandler,
	schedule string,
	olderThan time.Duration,
	logger *slog.Logger,
) *SupplierReminderJob {
	return &SupplierReminderJob{
		handler:   handler,
		cron:      cron.New(),
		schedule:  schedule,
		olderThan: olderThan,
		logger:    logger.With("component", "supplier_reminder_job"),
	}
}

// Start begins the reminder sweep on its schedule.
func (j *SupplierReminderJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		cmd, err := commands.NewRemindPendingSuppliersCommand(j.olderThan)
		if err != nil {
			j.logger.ErrorContext(ctx, "Supplier reminder job misconfigured", "error", err)
			return
		}

		result, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Supplier reminder sweep failed", "error", err)
			return
		}

		if result.Reminded > 0 {
			j.logger.InfoContext(ctx, "Supplier reminders sent", "count", result.Reminded)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Supplier reminder job started", "schedule", j.schedule)
	return nil
}

// Stop stops the reminder sweep.
func (j *SupplierReminderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Supplier reminder job stopped")
}
