package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"foodfast/internal/core/application/usecases/commands"
)

// StaleJobRequeuer returns abandoned jobs to the queue.
// Satisfied by commands.RequeueStaleJobsCommandHandler.
type StaleJobRequeuer interface {
	Handle(ctx context.Context, command commands.RequeueStaleJobsCommand) error
}

// StaleJobSweep periodically returns jobs abandoned by crashed workers back
// to pending so the pool can claim them again.
type StaleJobSweep struct {
	handler   StaleJobRequeuer
	threshold time.Duration
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewStaleJobSweep creates a sweep running on the given cron schedule.
// The threshold is the processing age after which a job counts as stale.
func NewStaleJobSweep(handler StaleJobRequeuer, threshold time.Duration, schedule string, logger *slog.Logger) *StaleJobSweep {
	return &StaleJobSweep{
		handler:   handler,
		threshold: threshold,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "stale_job_sweep"),
	}
}

// Start begins the sweep on its schedule.
func (j *StaleJobSweep) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewRequeueStaleJobsCommand(j.threshold)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Stale job sweep misconfigured", "error", cmdErr)
			return
		}

		if handleErr := j.handler.Handle(ctx, cmd); handleErr != nil {
			j.logger.ErrorContext(ctx, "Stale job sweep failed", "error", handleErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale job sweep started",
		"schedule", j.schedule, "threshold", j.threshold)
	return nil
}

// Stop stops the sweep.
func (j *StaleJobSweep) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale job sweep stopped")
}
