package service

import (
	"context"
	"errors"
	"time"

	"buildcode-backend/models"
	"buildcode-backend/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors surfaced to the HTTP layer
var (
	ErrMissingRequiredFields = errors.New("codeName, codeAbbreviation, and codeType are required")
	ErrInvalidCodeType       = errors.New("invalid codeType")
	ErrDuplicateAbbreviation = errors.New("a building code with this abbreviation already exists")
	ErrCodeNotFound          = errors.New("building code not found")
)

// BuildingCodeRepository is the catalog's view of building code storage
type BuildingCodeRepository interface {
	Create(ctx context.Context, code *models.BuildingCode) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BuildingCode, error)
	GetByAbbreviation(ctx context.Context, abbreviation string) (*models.BuildingCode, error)
	List(ctx context.Context, filter repository.CodeFilter) ([]*models.BuildingCodeDetail, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// CodeVersionRepository is the catalog's view of version storage
type CodeVersionRepository interface {
	Create(ctx context.Context, version *models.BuildingCodeVersion) error
}

// CatalogService handles business logic for the building code catalog
type CatalogService struct {
	codeRepo    BuildingCodeRepository
	versionRepo CodeVersionRepository
}

// CatalogServiceOption is a functional option for CatalogService
type CatalogServiceOption func(*CatalogService)

// WithBuildingCodeRepository sets the building code repository
func WithBuildingCodeRepository(repo BuildingCodeRepository) CatalogServiceOption {
	return func(s *CatalogService) {
		s.codeRepo = repo
	}
}

// WithCodeVersionRepository sets the code version repository
func WithCodeVersionRepository(repo CodeVersionRepository) CatalogServiceOption {
	return func(s *CatalogService) {
		s.versionRepo = repo
	}
}

// NewCatalogService creates a new catalog service
func NewCatalogService(opts ...CatalogServiceOption) *CatalogService {
	s := &CatalogService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListBuildingCodesRequest carries the optional catalog filters
type ListBuildingCodesRequest struct {
	CodeType        string
	Jurisdiction    string
	IncludeInactive bool
}

// CatalogStats aggregates the already-filtered code set
type CatalogStats struct {
	Total         int      `json:"total"`
	Active        int      `json:"active"`
	CodeTypes     []string `json:"codeTypes"`
	Jurisdictions []string `json:"jurisdictions"`
}

// AppliedFilters echoes the filters a listing was produced with
type AppliedFilters struct {
	CodeType        *string `json:"codeType"`
	Jurisdiction    *string `json:"jurisdiction"`
	IncludeInactive bool    `json:"includeInactive"`
}

// ListBuildingCodesResult is the full catalog listing
type ListBuildingCodesResult struct {
	Codes   []*models.BuildingCodeDetail
	Stats   CatalogStats
	Filters AppliedFilters
}

// ListBuildingCodes resolves the filtered catalog view: matching codes
// newest first, each with its versions (newest first) and per-version
// section counts, plus aggregate stats over the returned set.
func (s *CatalogService) ListBuildingCodes(ctx context.Context, req ListBuildingCodesRequest) (*ListBuildingCodesResult, error) {
	if s.codeRepo == nil {
		return nil, errors.New("building code repository not set")
	}

	filter := repository.CodeFilter{
		CodeType:        models.CodeType(req.CodeType),
		Jurisdiction:    req.Jurisdiction,
		IncludeInactive: req.IncludeInactive,
	}

	codes, err := s.codeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []*models.BuildingCodeDetail{}
	}

	stats := CatalogStats{
		Total:         len(codes),
		CodeTypes:     []string{},
		Jurisdictions: []string{},
	}
	seenTypes := make(map[string]bool)
	seenJurisdictions := make(map[string]bool)
	for _, code := range codes {
		if code.IsActive {
			stats.Active++
		}
		if t := string(code.CodeType); !seenTypes[t] {
			seenTypes[t] = true
			stats.CodeTypes = append(stats.CodeTypes, t)
		}
		if code.Jurisdiction != nil && *code.Jurisdiction != "" && !seenJurisdictions[*code.Jurisdiction] {
			seenJurisdictions[*code.Jurisdiction] = true
			stats.Jurisdictions = append(stats.Jurisdictions, *code.Jurisdiction)
		}
	}

	filters := AppliedFilters{IncludeInactive: req.IncludeInactive}
	if req.CodeType != "" {
		filters.CodeType = &req.CodeType
	}
	if req.Jurisdiction != "" {
		filters.Jurisdiction = &req.Jurisdiction
	}

	return &ListBuildingCodesResult{
		Codes:   codes,
		Stats:   stats,
		Filters: filters,
	}, nil
}

// CreateBuildingCodeRequest carries the payload for a new code and an
// optional initial version
type CreateBuildingCodeRequest struct {
	CodeName      string
	Abbreviation  string
	Jurisdiction  string
	CodeType      string
	Description   string
	OfficialURL   string
	Version       string
	EffectiveDate *time.Time
}

// CreateBuildingCodeResult is the created code and, when an initial
// version label was supplied, its version row
type CreateBuildingCodeResult struct {
	Code    *models.BuildingCode
	Version *models.BuildingCodeVersion
}

// CreateBuildingCode validates and inserts a new code, optionally with
// its initial default version in processing status "pending". The
// abbreviation pre-check only improves the error message; the store's
// UNIQUE constraint is the authoritative uniqueness guarantee and its
// violation maps to the same conflict.
func (s *CatalogService) CreateBuildingCode(ctx context.Context, req CreateBuildingCodeRequest) (*CreateBuildingCodeResult, error) {
	if s.codeRepo == nil {
		return nil, errors.New("building code repository not set")
	}

	if req.CodeName == "" || req.Abbreviation == "" || req.CodeType == "" {
		return nil, ErrMissingRequiredFields
	}
	if !models.IsValidCodeType(models.CodeType(req.CodeType)) {
		return nil, ErrInvalidCodeType
	}

	existing, err := s.codeRepo.GetByAbbreviation(ctx, req.Abbreviation)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateAbbreviation
	}

	code := &models.BuildingCode{
		CodeName:     req.CodeName,
		Abbreviation: req.Abbreviation,
		CodeType:     models.CodeType(req.CodeType),
		IsActive:     true,
	}
	if req.Jurisdiction != "" {
		code.Jurisdiction = &req.Jurisdiction
	}
	if req.Description != "" {
		code.Description = &req.Description
	}
	if req.OfficialURL != "" {
		code.OfficialURL = &req.OfficialURL
	}

	if err := s.codeRepo.Create(ctx, code); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateAbbreviation
		}
		return nil, err
	}

	result := &CreateBuildingCodeResult{Code: code}

	if req.Version != "" {
		if s.versionRepo == nil {
			return nil, errors.New("code version repository not set")
		}
		version := &models.BuildingCodeVersion{
			CodeID:           code.ID,
			Version:          req.Version,
			EffectiveDate:    req.EffectiveDate,
			IsDefault:        true,
			ProcessingStatus: models.ProcessingPending,
		}
		if err := s.versionRepo.Create(ctx, version); err != nil {
			return nil, err
		}
		result.Version = version
	}

	return result, nil
}

// SetCodeActiveRequest identifies the code and its new active state
type SetCodeActiveRequest struct {
	CodeID uuid.UUID
	Active bool
}

// SetCodeActiveResult is the updated code
type SetCodeActiveResult struct {
	Code *models.BuildingCode
}

// SetCodeActive deactivates or reactivates a code. Deactivated codes
// drop out of the default catalog listing but keep their versions and
// sections.
func (s *CatalogService) SetCodeActive(ctx context.Context, req SetCodeActiveRequest) (*SetCodeActiveResult, error) {
	if s.codeRepo == nil {
		return nil, errors.New("building code repository not set")
	}

	if err := s.codeRepo.SetActive(ctx, req.CodeID, req.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}

	code, err := s.codeRepo.GetByID(ctx, req.CodeID)
	if err != nil {
		return nil, err
	}

	return &SetCodeActiveResult{Code: code}, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// failure (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
