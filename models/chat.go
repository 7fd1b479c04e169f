package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat represents a conversation owned by a user
type Chat struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
