package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"foodfast/internal/core/application/usecases/commands"
)

// JobProcessor claims and processes one pending image job per call.
// Satisfied by commands.ProcessImageJobCommandHandler.
type JobProcessor interface {
	Handle(ctx context.Context, command commands.ProcessImageJobCommand) error
}

// WorkerPool runs a fixed number of workers draining the image job queue.
// Workers sleep when the queue is empty and are woken through Wake when new
// work arrives; a poll interval acts as a safety net so jobs recovered by
// the stale sweep are picked up even if the wake signal is missed.
type WorkerPool struct {
	processor    JobProcessor
	workers      int
	pollInterval time.Duration
	logger       *slog.Logger

	wake   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorkerPool creates a pool of the given size. A size below one is
// raised to one.
func NewWorkerPool(processor JobProcessor, workers int, pollInterval time.Duration, logger *slog.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}

	return &WorkerPool{
		processor:    processor,
		workers:      workers,
		pollInterval: pollInterval,
		logger:       logger.With("component", "image_job_worker_pool"),
		wake:         make(chan struct{}, 1),
	}
}

// Wake signals that at least one pending job may be available. Never
// blocks; redundant wakes are coalesced into one.
func (p *WorkerPool) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Start launches the workers.
func (p *WorkerPool) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}

	p.logger.InfoContext(ctx, "Image job worker pool started", "workers", p.workers)
	return nil
}

// Stop signals the workers to exit and waits for in-flight jobs to finish.
func (p *WorkerPool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.logger.Info("Image job worker pool stopped")
}

func (p *WorkerPool) run(ctx context.Context, worker int) {
	defer p.wg.Done()

	for {
		err := p.processOne(ctx, worker)
		if err == nil {
			// a job was processed, the queue may hold more
			continue
		}

		if !errors.Is(err, commands.ErrNoPendingJobs) && !errors.Is(err, context.Canceled) {
			p.logger.ErrorContext(ctx, "Image job processing failed", "worker", worker, "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-p.wake:
		case <-time.After(p.pollInterval):
		}
	}
}

// processOne runs one claim-and-process cycle. A panic escaping the handler
// must not take the worker down with it, so it is recovered here and the
// worker falls through to its wait.
func (p *WorkerPool) processOne(ctx context.Context, worker int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.ErrorContext(ctx, "Image job processing panicked", "worker", worker, "panic", r)
			err = fmt.Errorf("job processing panicked: %v", r)
		}
	}()

	return p.processor.Handle(ctx, commands.NewProcessImageJobCommand())
}
