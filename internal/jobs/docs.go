// Package jobs provides background processing for the order coordination
// system.
//
// Two kinds of work run here:
//
//  1. WorkerPool - a fixed set of workers draining the image upload job
//     queue. Workers are event-driven: uploads wake the pool through its
//     JobNotifier implementation, and a poll interval catches anything a
//     missed wake would leave behind.
//  2. StaleJobSweep - a cron task (github.com/robfig/cron/v3) that returns
//     jobs abandoned by crashed workers back to pending.
//
// # Usage
//
// Background work is managed through JobManager which provides a unified
// interface:
//
//	jobManager := jobs.NewJobManager(processHandler, requeueHandler,
//		workers, pollInterval, staleThreshold, sweepSchedule, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start background jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Workers ignore the expected empty-queue signal (ErrNoPendingJobs)
// - All other processing errors are logged and the worker keeps running
// - Failed starts stop any already running tasks
package jobs
