package jobs_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodfast/internal/core/application/usecases/commands"
	"foodfast/internal/jobs"
)

// fakeQueueProcessor imitates the claim semantics of the real handler: each
// call takes exactly one job or reports an empty queue.
type fakeQueueProcessor struct {
	mu        sync.Mutex
	pending   int
	processed int
	done      chan struct{}
}

func newFakeQueueProcessor(pending int) *fakeQueueProcessor {
	return &fakeQueueProcessor{
		pending: pending,
		done:    make(chan struct{}),
	}
}

func (f *fakeQueueProcessor) Handle(_ context.Context, _ commands.ProcessImageJobCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending == 0 {
		return commands.ErrNoPendingJobs
	}

	f.pending--
	f.processed++
	if f.pending == 0 {
		select {
		case <-f.done:
		default:
			close(f.done)
		}
	}
	return nil
}

func (f *fakeQueueProcessor) processedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.processed
}

func TestWorkerPoolDrainsQueue(t *testing.T) {
	processor := newFakeQueueProcessor(20)
	pool := jobs.NewWorkerPool(processor, 4, time.Hour, slog.Default())

	require.NoError(t, pool.Start())
	defer pool.Stop()

	pool.Wake()

	select {
	case <-processor.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("queue not drained, processed %d jobs", processor.processedCount())
	}

	assert.Equal(t, 20, processor.processedCount())
}

// panickingProcessor panics on every odd-numbered job and processes the rest.
type panickingProcessor struct {
	*fakeQueueProcessor
	mu    sync.Mutex
	calls int
}

func (p *panickingProcessor) Handle(ctx context.Context, cmd commands.ProcessImageJobCommand) error {
	p.mu.Lock()
	p.calls++
	calls := p.calls
	p.mu.Unlock()

	if calls%2 == 1 {
		panic("decoder blew up")
	}
	return p.fakeQueueProcessor.Handle(ctx, cmd)
}

func TestWorkerPoolSurvivesProcessorPanic(t *testing.T) {
	processor := &panickingProcessor{fakeQueueProcessor: newFakeQueueProcessor(5)}
	pool := jobs.NewWorkerPool(processor, 2, 10*time.Millisecond, slog.Default())

	require.NoError(t, pool.Start())
	pool.Wake()

	select {
	case <-processor.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("queue not drained, processed %d jobs", processor.processedCount())
	}

	pool.Stop()
	assert.Equal(t, 5, processor.processedCount())
}

func TestWorkerPoolWakeIsNonBlocking(t *testing.T) {
	processor := newFakeQueueProcessor(0)
	pool := jobs.NewWorkerPool(processor, 1, time.Hour, slog.Default())

	// wakes before start and repeated wakes must never block
	for i := 0; i < 100; i++ {
		pool.Wake()
	}

	require.NoError(t, pool.Start())
	pool.Stop()
}

func TestWorkerPoolStopWaitsForWorkers(t *testing.T) {
	processor := newFakeQueueProcessor(5)
	pool := jobs.NewWorkerPool(processor, 2, 10*time.Millisecond, slog.Default())

	require.NoError(t, pool.Start())
	pool.Wake()

	select {
	case <-processor.done:
	case <-time.After(5 * time.Second):
		t.Fatal("queue not drained before stop")
	}

	pool.Stop()
	assert.Equal(t, 5, processor.processedCount())
}
