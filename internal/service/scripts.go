package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/femivideograph/script-ai-worker/internal/domain"
	"github.com/femivideograph/script-ai-worker/internal/jobs"
	"github.com/femivideograph/script-ai-worker/internal/queue"
	"github.com/femivideograph/script-ai-worker/internal/storage"
)

var ErrEmptyScript = errors.New("script text is required")

// ScriptsService is the submission path: store the source script, then
// signal the worker. The job itself is created lazily by the engine's first
// status write; until then status reads synthesize pending.
type ScriptsService struct {
	blobs      storage.BlobStore
	producer   queue.Producer
	dispatcher *jobs.Dispatcher
}

func NewScriptsService(blobs storage.BlobStore, producer queue.Producer, dispatcher *jobs.Dispatcher) *ScriptsService {
	return &ScriptsService{
		blobs:      blobs,
		producer:   producer,
		dispatcher: dispatcher,
	}
}

// Submit stores the script under the new job's identifier and enqueues the
// start signal. Returns the job in its synthesized pending state.
func (s *ScriptsService) Submit(ctx context.Context, scriptText string) (*domain.Job, error) {
	if strings.TrimSpace(scriptText) == "" {
		return nil, ErrEmptyScript
	}

	jobID := uuid.NewString()
	if err := s.blobs.Put(ctx, jobID, []byte(scriptText)); err != nil {
		return nil, fmt.Errorf("store script: %w", err)
	}

	signal := domain.StartSignal{
		JobID:       jobID,
		RequestedAt: time.Now().UTC(),
	}
	if err := s.producer.Enqueue(ctx, signal); err != nil {
		// Best-effort rollback of the orphaned script blob.
		_ = s.blobs.Delete(ctx, jobID)
		return nil, fmt.Errorf("enqueue start signal: %w", err)
	}

	return &domain.Job{ID: jobID, State: domain.JobStatePending}, nil
}

func (s *ScriptsService) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.dispatcher.Status(ctx, jobID)
}
