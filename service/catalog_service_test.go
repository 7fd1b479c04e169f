package service

import (
	"context"
	"errors"
	"testing"

	"buildcode-backend/models"
	"buildcode-backend/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBuildingCodeRepo struct {
	codes      []*models.BuildingCodeDetail
	byAbbrev   map[string]*models.BuildingCode
	listErr    error
	createErr  error
	lastFilter repository.CodeFilter
	created    []*models.BuildingCode
}

func (f *fakeBuildingCodeRepo) Create(ctx context.Context, code *models.BuildingCode) error {
	if f.createErr != nil {
		return f.createErr
	}
	code.ID = uuid.New()
	f.created = append(f.created, code)
	return nil
}

func (f *fakeBuildingCodeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BuildingCode, error) {
	for _, code := range f.created {
		if code.ID == id {
			return code, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeBuildingCodeRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	for _, code := range f.created {
		if code.ID == id {
			code.IsActive = active
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeBuildingCodeRepo) GetByAbbreviation(ctx context.Context, abbreviation string) (*models.BuildingCode, error) {
	if code, ok := f.byAbbrev[abbreviation]; ok {
		return code, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeBuildingCodeRepo) List(ctx context.Context, filter repository.CodeFilter) ([]*models.BuildingCodeDetail, error) {
	f.lastFilter = filter
	return f.codes, f.listErr
}

type fakeCodeVersionRepo struct {
	created   []*models.BuildingCodeVersion
	createErr error
}

func (f *fakeCodeVersionRepo) Create(ctx context.Context, version *models.BuildingCodeVersion) error {
	if f.createErr != nil {
		return f.createErr
	}
	version.ID = uuid.New()
	f.created = append(f.created, version)
	return nil
}

func strPtr(s string) *string { return &s }

func detail(name, abbrev string, codeType models.CodeType, jurisdiction *string, active bool) *models.BuildingCodeDetail {
	return &models.BuildingCodeDetail{
		BuildingCode: models.BuildingCode{
			ID:           uuid.New(),
			CodeName:     name,
			Abbreviation: abbrev,
			CodeType:     codeType,
			Jurisdiction: jurisdiction,
			IsActive:     active,
		},
		Versions: []*models.BuildingCodeVersion{},
	}
}

func TestListBuildingCodes_Stats(t *testing.T) {
	repo := &fakeBuildingCodeRepo{
		codes: []*models.BuildingCodeDetail{
			detail("International Building Code", "IBC", models.CodeTypeBuilding, strPtr("International"), true),
			detail("California Building Code", "CBC", models.CodeTypeBuilding, strPtr("California"), true),
			detail("National Electrical Code", "NEC", models.CodeTypeElectrical, nil, false),
		},
	}
	svc := NewCatalogService(WithBuildingCodeRepository(repo))

	result, err := svc.ListBuildingCodes(context.Background(), ListBuildingCodesRequest{IncludeInactive: true})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Stats.Total)
	assert.Equal(t, 2, result.Stats.Active)
	assert.Equal(t, []string{"building", "electrical"}, result.Stats.CodeTypes)
	assert.Equal(t, []string{"International", "California"}, result.Stats.Jurisdictions)
}

func TestListBuildingCodes_FiltersPassedThrough(t *testing.T) {
	repo := &fakeBuildingCodeRepo{}
	svc := NewCatalogService(WithBuildingCodeRepository(repo))

	result, err := svc.ListBuildingCodes(context.Background(), ListBuildingCodesRequest{
		CodeType:     "fire",
		Jurisdiction: "California",
	})
	require.NoError(t, err)

	assert.Equal(t, models.CodeTypeFire, repo.lastFilter.CodeType)
	assert.Equal(t, "California", repo.lastFilter.Jurisdiction)
	assert.False(t, repo.lastFilter.IncludeInactive)

	require.NotNil(t, result.Filters.CodeType)
	assert.Equal(t, "fire", *result.Filters.CodeType)
	require.NotNil(t, result.Filters.Jurisdiction)
	assert.Equal(t, "California", *result.Filters.Jurisdiction)
}

func TestListBuildingCodes_EmptyCatalog(t *testing.T) {
	svc := NewCatalogService(WithBuildingCodeRepository(&fakeBuildingCodeRepo{}))

	result, err := svc.ListBuildingCodes(context.Background(), ListBuildingCodesRequest{})
	require.NoError(t, err)

	assert.NotNil(t, result.Codes)
	assert.Empty(t, result.Codes)
	assert.Equal(t, 0, result.Stats.Total)
	assert.Equal(t, []string{}, result.Stats.CodeTypes)
	assert.Equal(t, []string{}, result.Stats.Jurisdictions)
	assert.Nil(t, result.Filters.CodeType)
	assert.Nil(t, result.Filters.Jurisdiction)
}

func TestListBuildingCodes_RepositoryError(t *testing.T) {
	repo := &fakeBuildingCodeRepo{listErr: errors.New("connection refused")}
	svc := NewCatalogService(WithBuildingCodeRepository(repo))

	_, err := svc.ListBuildingCodes(context.Background(), ListBuildingCodesRequest{})
	require.Error(t, err)
}

func TestCreateBuildingCode_MissingFields(t *testing.T) {
	svc := NewCatalogService(WithBuildingCodeRepository(&fakeBuildingCodeRepo{}))

	_, err := svc.CreateBuildingCode(context.Background(), CreateBuildingCodeRequest{
		CodeName: "International Building Code",
		CodeType: "building",
	})
	assert.ErrorIs(t, err, ErrMissingRequiredFields)
}

func TestCreateBuildingCode_InvalidCodeType(t *testing.T) {
	svc := NewCatalogService(WithBuildingCodeRepository(&fakeBuildingCodeRepo{}))

	_, err := svc.CreateBuildingCode(context.Background(), CreateBuildingCodeRequest{
		CodeName:     "International Building Code",
		Abbreviation: "IBC",
		CodeType:     "maritime",
	})
	assert.ErrorIs(t, err, ErrInvalidCodeType)
}

func TestCreateBuildingCode_DuplicateViaPrecheck(t *testing.T) {
	repo := &fakeBuildingCodeRepo{
		byAbbrev: map[string]*models.BuildingCode{
			"IBC": {ID: uuid.New(), Abbreviation: "IBC"},
		},
	}
	svc := NewCatalogService(WithBuildingCodeRepository(repo))

	_, err := svc.CreateBuildingCode(context.Background(), CreateBuildingCodeRequest{
		CodeName:     "International Building Code",
		Abbreviation: "IBC",
		CodeType:     "building",
	})
	assert.ErrorIs(t, err, ErrDuplicateAbbreviation)
	assert.Empty(t, repo.created)
}

func TestCreateBuildingCode_DuplicateViaUniqueConstraint(t *testing.T) {
	// A concurrent insert can slip past the pre-check; the constraint
	// violation must map to the same conflict
	repo := &fakeBuildingCodeRepo{
		createErr: &pgconn.PgError{Code: "23505", ConstraintName: "building_codes_abbreviation_unique"},
	}
	svc := NewCatalogService(WithBuildingCodeRepository(repo))

	_, err := svc.CreateBuildingCode(context.Background(), CreateBuildingCodeRequest{
		CodeName:     "International Building Code",
		Abbreviation: "IBC",
		CodeType:     "building",
	})
	assert.ErrorIs(t, err, ErrDuplicateAbbreviation)
}

func TestCreateBuildingCode_WithoutVersion(t *testing.T) {
	repo := &fakeBuildingCodeRepo{}
	versionRepo := &fakeCodeVersionRepo{}
	svc := NewCatalogService(
		WithBuildingCodeRepository(repo),
		WithCodeVersionRepository(versionRepo),
	)

	result, err := svc.CreateBuildingCode(context.Background(), CreateBuildingCodeRequest{
		CodeName:     "International Building Code",
		Abbreviation: "IBC",
		CodeType:     "building",
	})
	require.NoError(t, err)

	assert.NotNil(t, result.Code)
	assert.True(t, result.Code.IsActive)
	assert.Nil(t, result.Version)
	assert.Empty(t, versionRepo.created)
}

func TestCreateBuildingCode_WithInitialVersion(t *testing.T) {
	repo := &fakeBuildingCodeRepo{}
	versionRepo := &fakeCodeVersionRepo{}
	svc := NewCatalogService(
		WithBuildingCodeRepository(repo),
		WithCodeVersionRepository(versionRepo),
	)

	result, err := svc.CreateBuildingCode(context.Background(), CreateBuildingCodeRequest{
		CodeName:     "International Building Code",
		Abbreviation: "IBC",
		Jurisdiction: "International",
		CodeType:     "building",
		Version:      "2024",
	})
	require.NoError(t, err)

	require.NotNil(t, result.Version)
	assert.Equal(t, result.Code.ID, result.Version.CodeID)
	assert.Equal(t, "2024", result.Version.Version)
	assert.True(t, result.Version.IsDefault)
	assert.Equal(t, models.ProcessingPending, result.Version.ProcessingStatus)

	require.NotNil(t, result.Code.Jurisdiction)
	assert.Equal(t, "International", *result.Code.Jurisdiction)
}

func TestCreateBuildingCode_OptionalFieldsOmitted(t *testing.T) {
	repo := &fakeBuildingCodeRepo{}
	svc := NewCatalogService(WithBuildingCodeRepository(repo))

	result, err := svc.CreateBuildingCode(context.Background(), CreateBuildingCodeRequest{
		CodeName:     "National Electrical Code",
		Abbreviation: "NEC",
		CodeType:     "electrical",
	})
	require.NoError(t, err)

	assert.Nil(t, result.Code.Jurisdiction)
	assert.Nil(t, result.Code.Description)
	assert.Nil(t, result.Code.OfficialURL)
}

func TestSetCodeActive(t *testing.T) {
	repo := &fakeBuildingCodeRepo{}
	svc := NewCatalogService(WithBuildingCodeRepository(repo))

	created, err := svc.CreateBuildingCode(context.Background(), CreateBuildingCodeRequest{
		CodeName:     "International Fire Code",
		Abbreviation: "IFC",
		CodeType:     "fire",
	})
	require.NoError(t, err)
	require.True(t, created.Code.IsActive)

	result, err := svc.SetCodeActive(context.Background(), SetCodeActiveRequest{
		CodeID: created.Code.ID,
		Active: false,
	})
	require.NoError(t, err)
	assert.False(t, result.Code.IsActive)

	result, err = svc.SetCodeActive(context.Background(), SetCodeActiveRequest{
		CodeID: created.Code.ID,
		Active: true,
	})
	require.NoError(t, err)
	assert.True(t, result.Code.IsActive)
}

func TestSetCodeActive_NotFound(t *testing.T) {
	svc := NewCatalogService(WithBuildingCodeRepository(&fakeBuildingCodeRepo{}))

	_, err := svc.SetCodeActive(context.Background(), SetCodeActiveRequest{
		CodeID: uuid.New(),
		Active: false,
	})
	assert.ErrorIs(t, err, ErrCodeNotFound)
}
