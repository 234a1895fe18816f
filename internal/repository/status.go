package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/femivideograph/script-ai-worker/internal/domain"
)

var ErrNotFound = errors.New("job not found")

// StatusRepository persists whole-job snapshots. Writes are last-write-wins
// atomic replacements, with a single writer per job (the owning engine run),
// so unsynchronized readers always see a complete snapshot.
type StatusRepository interface {
	PutJob(ctx context.Context, job *domain.Job) error
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)
}

// MemoryStatusRepository stores snapshots in memory for local development.
type MemoryStatusRepository struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

func NewMemoryStatusRepository() *MemoryStatusRepository {
	return &MemoryStatusRepository{
		jobs: make(map[string]*domain.Job),
	}
}

func (r *MemoryStatusRepository) PutJob(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = cloneJob(job)
	return nil
}

func (r *MemoryStatusRepository) GetJob(_ context.Context, jobID string) (*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneJob(job), nil
}

func cloneJob(job *domain.Job) *domain.Job {
	if job == nil {
		return nil
	}
	clone := *job
	if job.Results != nil {
		results := domain.JobResults{
			SuccessfulScenes: append([]domain.SceneSuccess(nil), job.Results.SuccessfulScenes...),
			FailedScenes:     append([]domain.SceneFailure(nil), job.Results.FailedScenes...),
		}
		clone.Results = &results
	}
	return &clone
}
