package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// IngestJobStatus represents the status of an ingestion job
type IngestJobStatus string

const (
	IngestStatusPending    IngestJobStatus = "pending"
	IngestStatusInProgress IngestJobStatus = "in_progress"
	IngestStatusCompleted  IngestJobStatus = "completed"
	IngestStatusFailed     IngestJobStatus = "failed"
)

// IngestStep is one stage of the ingestion pipeline
type IngestStep struct {
	Name        string `json:"name"`
	Status      string `json:"status"` // "pending", "in_progress", "completed", "failed"
	Description string `json:"description,omitempty"`
}

// IngestSteps is the ordered list of pipeline stages for a job
type IngestSteps []IngestStep

// Value implements driver.Valuer for JSONB
func (s IngestSteps) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *IngestSteps) Scan(value interface{}) error {
	if value == nil {
		*s = make(IngestSteps, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*s = make(IngestSteps, 0)
		return nil
	}

	if len(bytes) == 0 {
		*s = make(IngestSteps, 0)
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// IngestJob tracks one document's progress through the ingestion
// pipeline, polled over HTTP by the uploader
type IngestJob struct {
	ID         uuid.UUID  `json:"id"`
	VersionID  uuid.UUID  `json:"versionId"`
	DocumentID uuid.UUID  `json:"documentId"`
	// ChatID scopes the generated embeddings to the chat the upload
	// came from; nil means sections only, no embeddings
	ChatID       *uuid.UUID      `json:"chatId,omitempty"`
	Status       IngestJobStatus `json:"status"`
	CurrentStep  *string         `json:"currentStep,omitempty"`
	Steps        IngestSteps     `json:"steps"`
	ErrorMessage *string         `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	CompletedAt  *time.Time      `json:"completedAt,omitempty"`
}
