package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/femivideograph/script-ai-worker/internal/domain"
)

// PostgresStatusRepository stores job snapshots in a jobs table. Each write
// upserts the full row, matching the last-write-wins contract.
type PostgresStatusRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresStatusRepository(ctx context.Context, databaseURL string) (*PostgresStatusRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pg pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pg: %w", err)
	}
	return &PostgresStatusRepository{pool: pool}, nil
}

func (r *PostgresStatusRepository) Close() {
	r.pool.Close()
}

func (r *PostgresStatusRepository) PutJob(ctx context.Context, job *domain.Job) error {
	var results []byte
	if job.Results != nil {
		encoded, err := json.Marshal(job.Results)
		if err != nil {
			return fmt.Errorf("encode job results: %w", err)
		}
		results = encoded
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO jobs (
			id,
			state,
			completed_scenes,
			total_scenes,
			results,
			failure_reason,
			created_at,
			updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			completed_scenes = EXCLUDED.completed_scenes,
			total_scenes = EXCLUDED.total_scenes,
			results = EXCLUDED.results,
			failure_reason = EXCLUDED.failure_reason,
			updated_at = EXCLUDED.updated_at
	`,
		job.ID,
		string(job.State),
		job.Progress.CompletedScenes,
		job.Progress.TotalScenes,
		results,
		job.FailureReason,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert job: %w", err)
	}
	return nil
}

func (r *PostgresStatusRepository) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	var (
		job       domain.Job
		state     string
		results   []byte
		createdAt time.Time
		updatedAt time.Time
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, state, completed_scenes, total_scenes, results, failure_reason, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`, jobID).Scan(
		&job.ID,
		&state,
		&job.Progress.CompletedScenes,
		&job.Progress.TotalScenes,
		&results,
		&job.FailureReason,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query job: %w", err)
	}

	job.State = domain.JobState(state)
	if len(results) > 0 {
		var decoded domain.JobResults
		if err := json.Unmarshal(results, &decoded); err != nil {
			return nil, fmt.Errorf("decode job results: %w", err)
		}
		job.Results = &decoded
	}
	job.CreatedAt = createdAt
	job.UpdatedAt = updatedAt
	return &job, nil
}
