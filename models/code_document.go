package models

import (
	"time"

	"github.com/google/uuid"
)

// CodeDocument is an uploaded source document (usually a PDF) backing
// a building code version
type CodeDocument struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	VersionID   *uuid.UUID `json:"versionId,omitempty"`
	Filename    string     `json:"filename"`
	MimeType    string     `json:"mimeType"`
	Size        int64      `json:"size"`
	StoragePath string     `json:"storagePath"`
	CreatedAt   time.Time  `json:"createdAt"`
}
