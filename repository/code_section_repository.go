package repository

import (
	"context"
	"fmt"

	"buildcode-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CodeSectionRepository handles database operations for code sections
type CodeSectionRepository struct {
	db *pgxpool.Pool
}

// NewCodeSectionRepository creates a new code section repository
func NewCodeSectionRepository(db *pgxpool.Pool) *CodeSectionRepository {
	return &CodeSectionRepository{db: db}
}

// CreateBatch inserts the sections of one version inside a transaction,
// so a failed ingestion never leaves a partial section set behind
func (r *CodeSectionRepository) CreateBatch(ctx context.Context, sections []*models.BuildingCodeSection) error {
	if len(sections) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO building_code_sections (
			version_id, section_number, title, content, page_number
		) VALUES (
			$1, $2, $3, $4, $5
		) RETURNING id, created_at`

	for _, section := range sections {
		err := tx.QueryRow(
			ctx, query,
			section.VersionID,
			section.SectionNumber,
			section.Title,
			section.Content,
			section.PageNumber,
		).Scan(&section.ID, &section.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert section %s: %w", section.SectionNumber, err)
		}
	}

	return tx.Commit(ctx)
}

// ListByVersionID retrieves all sections of a version in document order
func (r *CodeSectionRepository) ListByVersionID(ctx context.Context, versionID uuid.UUID) ([]*models.BuildingCodeSection, error) {
	query := `
		SELECT id, version_id, section_number, title, content, page_number, created_at
		FROM building_code_sections
		WHERE version_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*models.BuildingCodeSection
	for rows.Next() {
		section := &models.BuildingCodeSection{}
		err := rows.Scan(
			&section.ID,
			&section.VersionID,
			&section.SectionNumber,
			&section.Title,
			&section.Content,
			&section.PageNumber,
			&section.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}

	return sections, rows.Err()
}
