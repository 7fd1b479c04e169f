package repository

import (
	"context"

	"buildcode-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EmbeddingRepository handles database operations for multimodal
// embeddings
type EmbeddingRepository struct {
	db *pgxpool.Pool
}

// NewEmbeddingRepository creates a new embedding repository
func NewEmbeddingRepository(db *pgxpool.Pool) *EmbeddingRepository {
	return &EmbeddingRepository{db: db}
}

// Create inserts a new embedding
func (r *EmbeddingRepository) Create(ctx context.Context, embedding *models.MultimodalEmbedding) error {
	query := `
		INSERT INTO multimodal_embeddings (
			chat_id, content_type, metadata, embedding
		) VALUES (
			$1, $2, $3, $4
		) RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		embedding.ChatID,
		embedding.ContentType,
		embedding.Metadata,
		embedding.Embedding,
	).Scan(&embedding.ID, &embedding.CreatedAt)

	return err
}

// SummaryByChatID returns the per-modality embedding counts for one
// chat. The filter runs server-side against the indexed chat_id column;
// the metadata predicate picks up legacy rows written before the column
// existed. Rows with malformed metadata match neither predicate and are
// excluded without error.
func (r *EmbeddingRepository) SummaryByChatID(ctx context.Context, chatID uuid.UUID) (*models.EmbeddingSummary, error) {
	query := `
		SELECT content_type, COUNT(*)
		FROM multimodal_embeddings
		WHERE chat_id = $1
			OR (chat_id IS NULL AND metadata->>'chatId' = $2)
		GROUP BY content_type`

	rows, err := r.db.Query(ctx, query, chatID, chatID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &models.EmbeddingSummary{}
	for rows.Next() {
		var contentType models.ContentType
		var count int
		if err := rows.Scan(&contentType, &count); err != nil {
			return nil, err
		}

		summary.Total += count
		switch contentType {
		case models.ContentTypeTextual:
			summary.Textual = count
		case models.ContentTypeVisual:
			summary.Visual = count
		case models.ContentTypeCombined:
			summary.Combined = count
		}
	}

	return summary, rows.Err()
}

// UnassignedRow is an embedding still lacking a chat_id, with its raw
// metadata for tolerant parsing
type UnassignedRow struct {
	ID       uuid.UUID
	Metadata []byte
}

// ListUnassigned returns embeddings whose chat_id column has not been
// populated yet, up to limit rows
func (r *EmbeddingRepository) ListUnassigned(ctx context.Context, limit int) ([]UnassignedRow, error) {
	query := `
		SELECT id, metadata
		FROM multimodal_embeddings
		WHERE chat_id IS NULL
		ORDER BY created_at ASC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []UnassignedRow
	for rows.Next() {
		var row UnassignedRow
		if err := rows.Scan(&row.ID, &row.Metadata); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// AssignChat populates the chat_id column for one embedding
func (r *EmbeddingRepository) AssignChat(ctx context.Context, id, chatID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		"UPDATE multimodal_embeddings SET chat_id = $2 WHERE id = $1",
		id, chatID,
	)
	return err
}
