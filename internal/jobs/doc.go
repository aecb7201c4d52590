// Package jobs implements background job processing for the Raid Ledger API.
//
// The jobs package contains scheduled tasks that run independently of
// HTTP request handling.
//
// # Job Types
//
// Available background jobs:
//
//   - EventSweeper: completes past events and clears signups off stale
//     cancelled events
//
// # Lifecycle
//
// Each job owns a goroutine started with Start and drained with Stop:
//
//	sweeper := jobs.NewEventSweeper(eventService, time.Hour)
//	sweeper.Start()
//	defer sweeper.Stop()
//
// RunOnce exposes a single pass for tests and manual triggers.
//
// # Error Handling
//
// Jobs log errors but don't crash the application; a failed pass is
// retried on the next tick.
package jobs
