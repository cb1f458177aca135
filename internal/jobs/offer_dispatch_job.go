package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OfferDispatchJob manages the scheduled dispatch of driver offers.
// Runs every second so new orders reach a candidate quickly and overdue
// offers move on to the next driver.
type OfferDispatchJob struct {
	handler commands.DispatchOffersCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOfferDispatchJob creates a new job for dispatching driver offers.
// Uses DispatchOffersCommandHandler to run one sweep per tick.
func NewOfferDispatchJob(handler commands.DispatchOffersCommandHandler, logger *slog.Logger) *OfferDispatchJob {
	return &OfferDispatchJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "offer_dispatch_job"),
	}
}

// Start begins the offer dispatch job to run every second.
func (j *OfferDispatchJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewDispatchOffersCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			// Per-assignment failures are absorbed inside the sweep;
			// an error here means the sweep itself could not run.
			j.logger.ErrorContext(ctx, "Offer dispatch job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer dispatch job started (running every second)")
	return nil
}

// Stop stops the offer dispatch job.
func (j *OfferDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Offer dispatch job stopped")
}
