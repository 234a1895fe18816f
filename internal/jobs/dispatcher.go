package jobs

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/femivideograph/script-ai-worker/internal/domain"
	"github.com/femivideograph/script-ai-worker/internal/repository"
)

// ErrAlreadyRunning rejects a start for a job this process is executing.
var ErrAlreadyRunning = errors.New("job is already running")

// Dispatcher maps a client-visible job identifier to exactly one engine run.
// The in-process guard plus the engine's persisted-state check implement the
// reject-duplicate-start policy: the same identifier never has two
// concurrent processing runs against shared state.
type Dispatcher struct {
	engine *Engine
	status repository.StatusRepository
	logger *log.Logger

	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

func NewDispatcher(engine *Engine, status repository.StatusRepository, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		engine:  engine,
		status:  status,
		logger:  logger,
		running: make(map[string]struct{}),
	}
}

// Start schedules job execution without blocking the caller. Each job runs
// as one long-lived goroutine and is not re-entered until terminal.
func (d *Dispatcher) Start(ctx context.Context, jobID, sourceKey string) error {
	d.mu.Lock()
	if _, active := d.running[jobID]; active {
		d.mu.Unlock()
		return ErrAlreadyRunning
	}
	d.running[jobID] = struct{}{}
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			d.mu.Lock()
			delete(d.running, jobID)
			d.mu.Unlock()
		}()

		if err := d.engine.Run(ctx, jobID, sourceKey); err != nil && d.logger != nil {
			d.logger.Printf("job run aborted job_id=%s err=%v", jobID, err)
		}
	}()
	return nil
}

// Status returns the latest persisted snapshot, or a synthesized pending
// record when the job has not written anything yet.
func (d *Dispatcher) Status(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := d.status.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.Job{ID: jobID, State: domain.JobStatePending}, nil
		}
		return nil, err
	}
	return job, nil
}

// Wait blocks until all in-flight job runs finish. Used on shutdown and in
// tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
