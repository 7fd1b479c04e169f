package repository

import (
	"context"

	"buildcode-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IngestJobRepository handles database operations for ingestion jobs
type IngestJobRepository struct {
	db *pgxpool.Pool
}

// NewIngestJobRepository creates a new ingest job repository
func NewIngestJobRepository(db *pgxpool.Pool) *IngestJobRepository {
	return &IngestJobRepository{db: db}
}

// Create inserts a new ingestion job
func (r *IngestJobRepository) Create(ctx context.Context, job *models.IngestJob) error {
	query := `
		INSERT INTO ingest_jobs (
			version_id, document_id, chat_id, status, current_step, steps
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		job.VersionID,
		job.DocumentID,
		job.ChatID,
		job.Status,
		job.CurrentStep,
		job.Steps,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	return err
}

// GetByID retrieves an ingestion job by ID
func (r *IngestJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.IngestJob, error) {
	job := &models.IngestJob{}
	query := `
		SELECT id, version_id, document_id, chat_id, status, current_step, steps,
			error_message, created_at, updated_at, completed_at
		FROM ingest_jobs
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.VersionID,
		&job.DocumentID,
		&job.ChatID,
		&job.Status,
		&job.CurrentStep,
		&job.Steps,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)

	if err != nil {
		return nil, err
	}

	return job, nil
}

// UpdateStatus updates the job status
func (r *IngestJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.IngestJobStatus) error {
	query := `
		UPDATE ingest_jobs SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// UpdateProgress updates the current step and step list
func (r *IngestJobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.IngestSteps) error {
	query := `
		UPDATE ingest_jobs SET
			current_step = $2,
			steps = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, currentStep, steps)
	return err
}

// Complete marks the job as completed
func (r *IngestJobRepository) Complete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE ingest_jobs SET
			status = 'completed',
			updated_at = NOW(),
			completed_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id)
	return err
}

// Fail marks the job as failed and records the error
func (r *IngestJobRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE ingest_jobs SET
			status = 'failed',
			error_message = $2,
			updated_at = NOW(),
			completed_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, errorMessage)
	return err
}
