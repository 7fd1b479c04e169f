package models

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingStatus tracks how far a version's document has progressed
// through ingestion
type ProcessingStatus string

const (
	ProcessingPending   ProcessingStatus = "pending"
	ProcessingActive    ProcessingStatus = "processing"
	ProcessingCompleted ProcessingStatus = "completed"
	ProcessingFailed    ProcessingStatus = "failed"
)

// BuildingCodeVersion is one dated revision of a building code.
// At most one version per code carries IsDefault; the schema enforces
// this with a partial unique index.
type BuildingCodeVersion struct {
	ID               uuid.UUID        `json:"id"`
	CodeID           uuid.UUID        `json:"codeId"`
	Version          string           `json:"version"`
	EffectiveDate    *time.Time       `json:"effectiveDate"`
	SupersededDate   *time.Time       `json:"supersededDate"`
	IsDefault        bool             `json:"isDefault"`
	ProcessingStatus ProcessingStatus `json:"processingStatus"`
	CreatedAt        time.Time        `json:"createdAt"`

	// SectionCount is populated by the catalog listing query only
	SectionCount int `json:"sectionCount"`
}

// BuildingCodeSection is a subdivision of one version's text, e.g. a
// numbered clause.
type BuildingCodeSection struct {
	ID            uuid.UUID `json:"id"`
	VersionID     uuid.UUID `json:"versionId"`
	SectionNumber string    `json:"sectionNumber"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	PageNumber    *int      `json:"pageNumber,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
