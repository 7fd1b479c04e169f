package repository

import (
	"context"
	"fmt"
	"time"

	"buildcode-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BuildingCodeRepository handles database operations for building codes
type BuildingCodeRepository struct {
	db *pgxpool.Pool
}

// NewBuildingCodeRepository creates a new building code repository
func NewBuildingCodeRepository(db *pgxpool.Pool) *BuildingCodeRepository {
	return &BuildingCodeRepository{db: db}
}

// CodeFilter narrows the catalog listing. Zero values impose no
// constraint; IncludeInactive false restricts to active codes.
type CodeFilter struct {
	CodeType        models.CodeType
	Jurisdiction    string
	IncludeInactive bool
}

// Create inserts a new building code
func (r *BuildingCodeRepository) Create(ctx context.Context, code *models.BuildingCode) error {
	query := `
		INSERT INTO building_codes (
			code_name, abbreviation, jurisdiction, code_type,
			is_active, description, official_url
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		code.CodeName,
		code.Abbreviation,
		code.Jurisdiction,
		code.CodeType,
		code.IsActive,
		code.Description,
		code.OfficialURL,
	).Scan(&code.ID, &code.CreatedAt, &code.UpdatedAt)

	return err
}

// GetByID retrieves a building code by ID
func (r *BuildingCodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BuildingCode, error) {
	code := &models.BuildingCode{}
	query := `
		SELECT id, code_name, abbreviation, jurisdiction, code_type,
			is_active, description, official_url, created_at, updated_at
		FROM building_codes
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&code.ID,
		&code.CodeName,
		&code.Abbreviation,
		&code.Jurisdiction,
		&code.CodeType,
		&code.IsActive,
		&code.Description,
		&code.OfficialURL,
		&code.CreatedAt,
		&code.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return code, nil
}

// GetByAbbreviation retrieves a building code by its natural key
func (r *BuildingCodeRepository) GetByAbbreviation(ctx context.Context, abbreviation string) (*models.BuildingCode, error) {
	code := &models.BuildingCode{}
	query := `
		SELECT id, code_name, abbreviation, jurisdiction, code_type,
			is_active, description, official_url, created_at, updated_at
		FROM building_codes
		WHERE abbreviation = $1`

	err := r.db.QueryRow(ctx, query, abbreviation).Scan(
		&code.ID,
		&code.CodeName,
		&code.Abbreviation,
		&code.Jurisdiction,
		&code.CodeType,
		&code.IsActive,
		&code.Description,
		&code.OfficialURL,
		&code.CreatedAt,
		&code.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return code, nil
}

// List retrieves building codes with their versions and per-version
// section counts in a single aggregated query: versions are LEFT JOINed
// onto codes and section counts grouped in a subquery, replacing the
// per-code and per-version round trips the listing would otherwise need.
func (r *BuildingCodeRepository) List(ctx context.Context, filter CodeFilter) ([]*models.BuildingCodeDetail, error) {
	query := `
		SELECT c.id, c.code_name, c.abbreviation, c.jurisdiction, c.code_type,
			c.is_active, c.description, c.official_url, c.created_at, c.updated_at,
			v.id, v.version, v.effective_date, v.superseded_date,
			v.is_default, v.processing_status, v.created_at,
			COALESCE(s.section_count, 0)
		FROM building_codes c
		LEFT JOIN building_code_versions v ON v.code_id = c.id
		LEFT JOIN (
			SELECT version_id, COUNT(*) AS section_count
			FROM building_code_sections
			GROUP BY version_id
		) s ON s.version_id = v.id
		WHERE 1=1`

	var args []interface{}
	argIndex := 1

	if !filter.IncludeInactive {
		query += " AND c.is_active = true"
	}
	if filter.CodeType != "" {
		query += fmt.Sprintf(" AND c.code_type = $%d", argIndex)
		args = append(args, filter.CodeType)
		argIndex++
	}
	if filter.Jurisdiction != "" {
		query += fmt.Sprintf(" AND c.jurisdiction = $%d", argIndex)
		args = append(args, filter.Jurisdiction)
		argIndex++
	}

	query += " ORDER BY c.created_at DESC, v.created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []*models.BuildingCodeDetail
	byID := make(map[uuid.UUID]*models.BuildingCodeDetail)

	for rows.Next() {
		code := &models.BuildingCode{}
		var (
			versionID        *uuid.UUID
			versionLabel     *string
			effectiveDate    *time.Time
			supersededDate   *time.Time
			isDefault        *bool
			processingStatus *models.ProcessingStatus
			versionCreatedAt *time.Time
			sectionCount     int
		)

		err := rows.Scan(
			&code.ID,
			&code.CodeName,
			&code.Abbreviation,
			&code.Jurisdiction,
			&code.CodeType,
			&code.IsActive,
			&code.Description,
			&code.OfficialURL,
			&code.CreatedAt,
			&code.UpdatedAt,
			&versionID,
			&versionLabel,
			&effectiveDate,
			&supersededDate,
			&isDefault,
			&processingStatus,
			&versionCreatedAt,
			&sectionCount,
		)
		if err != nil {
			return nil, err
		}

		detail, seen := byID[code.ID]
		if !seen {
			detail = &models.BuildingCodeDetail{
				BuildingCode: *code,
				Versions:     []*models.BuildingCodeVersion{},
			}
			byID[code.ID] = detail
			codes = append(codes, detail)
		}

		if versionID != nil {
			detail.Versions = append(detail.Versions, &models.BuildingCodeVersion{
				ID:               *versionID,
				CodeID:           code.ID,
				Version:          *versionLabel,
				EffectiveDate:    effectiveDate,
				SupersededDate:   supersededDate,
				IsDefault:        *isDefault,
				ProcessingStatus: *processingStatus,
				CreatedAt:        *versionCreatedAt,
				SectionCount:     sectionCount,
			})
		}
	}

	return codes, rows.Err()
}

// SetActive flips the active flag on a building code. Returns
// pgx.ErrNoRows when the code does not exist.
func (r *BuildingCodeRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `
		UPDATE building_codes SET
			is_active = $2,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
