// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order fulfillment.
//
// # Available Jobs
//
// 1. OfferDispatchJob - Runs every second to drive the driver offer protocol:
// first offers for new orders, expiry of overdue offers, re-offers after a
// reject or expiry, and cancellation of orders whose attempts are exhausted.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(dispatchOffersHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The dispatch job uses the cron expression "* * * * * *" which means it runs
// every second. This keeps offer hand-offs responsive without drivers or
// stores ever having to retry their own requests.
//
// # Error Handling
//
// Per-assignment failures are handled inside the sweep itself; only a failure
// of the sweep as a whole (for example losing the database) is logged here.
package jobs
