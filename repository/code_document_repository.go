package repository

import (
	"context"

	"buildcode-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CodeDocumentRepository handles database operations for uploaded
// source documents
type CodeDocumentRepository struct {
	db *pgxpool.Pool
}

// NewCodeDocumentRepository creates a new code document repository
func NewCodeDocumentRepository(db *pgxpool.Pool) *CodeDocumentRepository {
	return &CodeDocumentRepository{db: db}
}

// Create inserts a new document record
func (r *CodeDocumentRepository) Create(ctx context.Context, doc *models.CodeDocument) error {
	query := `
		INSERT INTO code_documents (
			id, user_id, version_id, filename, mime_type, size, storage_path
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING created_at`

	err := r.db.QueryRow(
		ctx, query,
		doc.ID,
		doc.UserID,
		doc.VersionID,
		doc.Filename,
		doc.MimeType,
		doc.Size,
		doc.StoragePath,
	).Scan(&doc.CreatedAt)

	return err
}

// GetByID retrieves a document record by ID
func (r *CodeDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CodeDocument, error) {
	doc := &models.CodeDocument{}
	query := `
		SELECT id, user_id, version_id, filename, mime_type, size, storage_path, created_at
		FROM code_documents
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.VersionID,
		&doc.Filename,
		&doc.MimeType,
		&doc.Size,
		&doc.StoragePath,
		&doc.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// ListByVersionID retrieves all documents attached to a version
func (r *CodeDocumentRepository) ListByVersionID(ctx context.Context, versionID uuid.UUID) ([]*models.CodeDocument, error) {
	query := `
		SELECT id, user_id, version_id, filename, mime_type, size, storage_path, created_at
		FROM code_documents
		WHERE version_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.CodeDocument
	for rows.Next() {
		doc := &models.CodeDocument{}
		err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.VersionID,
			&doc.Filename,
			&doc.MimeType,
			&doc.Size,
			&doc.StoragePath,
			&doc.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}
