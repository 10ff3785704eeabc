package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager coordinates all background processing in the application.
// Provides a unified interface to start and stop the worker pool and the
// stale job sweep.
type JobManager struct {
	workerPool    *WorkerPool
	staleJobSweep *StaleJobSweep
}

// NewJobManager creates a job manager with all required background tasks.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	processor JobProcessor,
	requeuer StaleJobRequeuer,
	workers int,
	pollInterval time.Duration,
	staleThreshold time.Duration,
	sweepSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		workerPool:    NewWorkerPool(processor, workers, pollInterval, logger),
		staleJobSweep: NewStaleJobSweep(requeuer, staleThreshold, sweepSchedule, logger),
	}
}

// WorkerPool exposes the pool so the composition root can register it as
// the job notifier for upload commands.
func (jm *JobManager) WorkerPool() *WorkerPool {
	return jm.workerPool
}

// StartAll starts the worker pool and the stale job sweep.
// Returns an error if any task fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.workerPool.Start(); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	if err := jm.staleJobSweep.Start(); err != nil {
		// Stop already started tasks if this one fails
		jm.workerPool.Stop()
		return fmt.Errorf("failed to start stale job sweep: %w", err)
	}

	return nil
}

// StopAll stops all background tasks gracefully.
func (jm *JobManager) StopAll() {
	jm.staleJobSweep.Stop()
	jm.workerPool.Stop()
}
