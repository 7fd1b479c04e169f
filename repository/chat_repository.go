package repository

import (
	"context"

	"buildcode-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository handles database operations for chats
type ChatRepository struct {
	db *pgxpool.Pool
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create inserts a new chat
func (r *ChatRepository) Create(ctx context.Context, chat *models.Chat) error {
	query := `
		INSERT INTO chats (user_id, title)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, chat.UserID, chat.Title).
		Scan(&chat.ID, &chat.CreatedAt, &chat.UpdatedAt)

	return err
}

// GetByID retrieves a chat by ID
func (r *ChatRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	chat := &models.Chat{}
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM chats
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&chat.ID,
		&chat.UserID,
		&chat.Title,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return chat, nil
}

// UpdateTitle renames a chat, scoped to its owner. Returns pgx.ErrNoRows
// (via the RETURNING scan) when the chat does not exist or belongs to a
// different user.
func (r *ChatRepository) UpdateTitle(ctx context.Context, id, userID uuid.UUID, title string) (*models.Chat, error) {
	chat := &models.Chat{}
	query := `
		UPDATE chats SET
			title = $3,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, id, userID, title).Scan(
		&chat.ID,
		&chat.UserID,
		&chat.Title,
		&chat.CreatedAt,
		&chat.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return chat, nil
}
