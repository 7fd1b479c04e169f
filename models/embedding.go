package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// ContentType is the modality of a stored embedding
type ContentType string

const (
	ContentTypeTextual  ContentType = "textual"
	ContentTypeVisual   ContentType = "visual"
	ContentTypeCombined ContentType = "combined"
)

// EmbeddingMetadata is the free-form JSONB blob attached to an
// embedding. Legacy rows carry the owning chat only here, under the
// "chatId" key.
type EmbeddingMetadata map[string]interface{}

// Value implements driver.Valuer for JSONB
func (m EmbeddingMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB
func (m *EmbeddingMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = make(EmbeddingMetadata)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*m = make(EmbeddingMetadata)
		return nil
	}

	if len(bytes) == 0 {
		*m = make(EmbeddingMetadata)
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// MultimodalEmbedding is one stored vector-search unit. ChatID is the
// queryable chat association; rows written before the column existed
// have it only inside Metadata.
type MultimodalEmbedding struct {
	ID          uuid.UUID         `json:"id"`
	ChatID      *uuid.UUID        `json:"chatId"`
	ContentType ContentType       `json:"contentType"`
	Metadata    EmbeddingMetadata `json:"metadata,omitempty"`
	Embedding   pgvector.Vector   `json:"-"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// EmbeddingSummary is the per-modality breakdown for one chat. Total
// counts every matching row, including rows whose content type is
// outside the three known buckets.
type EmbeddingSummary struct {
	Total    int `json:"total"`
	Textual  int `json:"textual"`
	Visual   int `json:"visual"`
	Combined int `json:"combined"`
}

// ChatIDFromMetadata extracts the owning chat from a raw metadata blob.
// The blob may be a JSON object, or that object serialized again as a
// JSON string (some ingester versions double-encoded it). Returns false
// for anything unparseable; callers must skip such rows, never fail.
func ChatIDFromMetadata(raw []byte) (uuid.UUID, bool) {
	if len(raw) == 0 {
		return uuid.Nil, false
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		// Double-encoded: the blob is a JSON string holding the object
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return uuid.Nil, false
		}
		if err := json.Unmarshal([]byte(inner), &obj); err != nil {
			return uuid.Nil, false
		}
	}

	val, ok := obj["chatId"].(string)
	if !ok || val == "" {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
