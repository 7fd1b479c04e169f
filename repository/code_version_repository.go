package repository

import (
	"context"

	"buildcode-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CodeVersionRepository handles database operations for code versions
type CodeVersionRepository struct {
	db *pgxpool.Pool
}

// NewCodeVersionRepository creates a new code version repository
func NewCodeVersionRepository(db *pgxpool.Pool) *CodeVersionRepository {
	return &CodeVersionRepository{db: db}
}

// Create inserts a new version for a building code
func (r *CodeVersionRepository) Create(ctx context.Context, version *models.BuildingCodeVersion) error {
	query := `
		INSERT INTO building_code_versions (
			code_id, version, effective_date, superseded_date,
			is_default, processing_status
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		version.CodeID,
		version.Version,
		version.EffectiveDate,
		version.SupersededDate,
		version.IsDefault,
		version.ProcessingStatus,
	).Scan(&version.ID, &version.CreatedAt)

	return err
}

// GetByID retrieves a version by ID
func (r *CodeVersionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BuildingCodeVersion, error) {
	version := &models.BuildingCodeVersion{}
	query := `
		SELECT id, code_id, version, effective_date, superseded_date,
			is_default, processing_status, created_at
		FROM building_code_versions
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&version.ID,
		&version.CodeID,
		&version.Version,
		&version.EffectiveDate,
		&version.SupersededDate,
		&version.IsDefault,
		&version.ProcessingStatus,
		&version.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return version, nil
}

// UpdateProcessingStatus moves a version through the ingestion lifecycle
func (r *CodeVersionRepository) UpdateProcessingStatus(ctx context.Context, id uuid.UUID, status models.ProcessingStatus) error {
	query := `
		UPDATE building_code_versions SET
			processing_status = $2
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}
