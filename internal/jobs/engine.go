package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/femivideograph/script-ai-worker/internal/domain"
	"github.com/femivideograph/script-ai-worker/internal/repository"
	"github.com/femivideograph/script-ai-worker/internal/scenes"
	"github.com/femivideograph/script-ai-worker/internal/storage"
)

// ErrAlreadyStarted rejects duplicate start signals: the persisted snapshot
// shows the job is already processing or done.
var ErrAlreadyStarted = errors.New("job already started")

// SceneProcessor is the per-scene collaborator. Its failures are isolated
// into the outcome; only infrastructure errors abort a job.
type SceneProcessor interface {
	Process(ctx context.Context, scene domain.Scene) scenes.Outcome
}

// Chunker partitions raw script text into ordered scenes.
type Chunker func(text string) []domain.Scene

type EngineConfig struct {
	Status    repository.StatusRepository
	Fetcher   *storage.Fetcher
	Blobs     storage.BlobStore
	Processor SceneProcessor
	Chunk     Chunker
	Logger    *log.Logger
	Now       func() time.Time
}

// Engine drives one job from start signal to terminal state:
// pending -> processing -> complete/failed. It is the single writer of the
// job's status record; every transition and per-scene checkpoint persists a
// whole snapshot so a polling client always reads consistent progress.
type Engine struct {
	status    repository.StatusRepository
	fetcher   *storage.Fetcher
	blobs     storage.BlobStore
	processor SceneProcessor
	chunk     Chunker
	logger    *log.Logger
	now       func() time.Time
}

func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{
		status:    cfg.Status,
		fetcher:   cfg.Fetcher,
		blobs:     cfg.Blobs,
		processor: cfg.Processor,
		chunk:     cfg.Chunk,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
}

// Run executes the whole lifecycle for one job. The source script is read
// from sourceKey, falling back to the job's own identifier. Scenes are
// processed strictly in order; no two scenes of the same job ever run
// concurrently. Run returns an error only when the job could not be driven
// at all (duplicate start, status store down); job-level failures are
// recorded in the snapshot and return nil.
func (e *Engine) Run(ctx context.Context, jobID, sourceKey string) (err error) {
	key := sourceKey
	if key == "" {
		key = jobID
	}

	job, startErr := e.enterProcessing(ctx, jobID)
	if startErr != nil {
		return startErr
	}

	defer func() {
		if panicked := recover(); panicked != nil {
			e.failJob(ctx, job, key, fmt.Sprintf("unexpected error: %v", panicked))
			err = nil
		}
	}()

	source, fetchErr := e.fetcher.Fetch(ctx, key)
	if fetchErr != nil {
		e.failJob(ctx, job, key, fmt.Sprintf("source script not retrievable: %v", fetchErr))
		return nil
	}

	sceneList := e.chunk(string(source))
	job.Progress.TotalScenes = len(sceneList)
	if writeErr := e.persist(ctx, job); writeErr != nil {
		return fmt.Errorf("persist scene count: %w", writeErr)
	}
	if e.logger != nil {
		e.logger.Printf("job chunked job_id=%s scenes=%d", job.ID, len(sceneList))
	}

	results := domain.JobResults{
		SuccessfulScenes: make([]domain.SceneSuccess, 0, len(sceneList)),
		FailedScenes:     make([]domain.SceneFailure, 0),
	}
	for _, scene := range sceneList {
		outcome := e.processor.Process(ctx, scene)
		if outcome.Success != nil {
			results.SuccessfulScenes = append(results.SuccessfulScenes, *outcome.Success)
		} else if outcome.Failure != nil {
			results.FailedScenes = append(results.FailedScenes, *outcome.Failure)
		} else {
			results.FailedScenes = append(results.FailedScenes, domain.SceneFailure{
				SceneLabel:   scene.Heading,
				ErrorMessage: "scene produced no outcome",
			})
		}

		// Durability checkpoint: a crash here leaves the last completed
		// scene boundary recorded, and a concurrent status read sees it.
		job.Progress.CompletedScenes = scene.SequenceIndex + 1
		if writeErr := e.persist(ctx, job); writeErr != nil {
			e.failJob(ctx, job, key, fmt.Sprintf("persist progress: %v", writeErr))
			return fmt.Errorf("persist progress: %w", writeErr)
		}
	}

	// Completion reflects "processing finished", not "all scenes succeeded".
	job.State = domain.JobStateComplete
	job.Results = &results
	if writeErr := e.persist(ctx, job); writeErr != nil {
		return fmt.Errorf("persist completion: %w", writeErr)
	}
	e.cleanupSource(ctx, job.ID, key)

	if e.logger != nil {
		e.logger.Printf("job complete job_id=%s ok=%d failed=%d",
			job.ID, len(results.SuccessfulScenes), len(results.FailedScenes))
	}
	return nil
}

// enterProcessing writes the processing snapshot before any chunking work,
// so a concurrent status read never observes an undefined state. A snapshot
// already past pending means a duplicate start and is rejected.
func (e *Engine) enterProcessing(ctx context.Context, jobID string) (*domain.Job, error) {
	now := e.now()
	job := &domain.Job{
		ID:        jobID,
		State:     domain.JobStateProcessing,
		CreatedAt: now,
	}

	existing, err := e.status.GetJob(ctx, jobID)
	switch {
	case err == nil:
		if existing.State != domain.JobStatePending {
			return nil, fmt.Errorf("%w: job %s is %s", ErrAlreadyStarted, jobID, existing.State)
		}
		job.CreatedAt = existing.CreatedAt
	case errors.Is(err, repository.ErrNotFound):
		// First write for this job.
	default:
		return nil, fmt.Errorf("read job %s: %w", jobID, err)
	}

	if err := e.persist(ctx, job); err != nil {
		return nil, fmt.Errorf("enter processing for job %s: %w", jobID, err)
	}
	if e.logger != nil {
		e.logger.Printf("job processing job_id=%s", jobID)
	}
	return job, nil
}

func (e *Engine) failJob(ctx context.Context, job *domain.Job, key, reason string) {
	job.State = domain.JobStateFailed
	job.FailureReason = reason
	if err := e.persist(ctx, job); err != nil && e.logger != nil {
		e.logger.Printf("persist failed state job_id=%s err=%v", job.ID, err)
	}
	e.cleanupSource(ctx, job.ID, key)
	if e.logger != nil {
		e.logger.Printf("job failed job_id=%s reason=%q", job.ID, reason)
	}
}

// cleanupSource retires the source script once the job is terminal. Deletion
// is idempotent; a leaked blob is logged, never escalated into a job failure.
func (e *Engine) cleanupSource(ctx context.Context, jobID, key string) {
	if err := e.blobs.Delete(ctx, key); err != nil && e.logger != nil {
		e.logger.Printf("source cleanup failed job_id=%s key=%s err=%v", jobID, key, err)
	}
}

func (e *Engine) persist(ctx context.Context, job *domain.Job) error {
	job.UpdatedAt = e.now()
	return e.status.PutJob(ctx, job)
}
