package service

import (
	"context"
	"testing"

	"buildcode-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatRepo struct {
	chats map[uuid.UUID]*models.Chat
}

func (f *fakeChatRepo) UpdateTitle(ctx context.Context, id, userID uuid.UUID, title string) (*models.Chat, error) {
	chat, ok := f.chats[id]
	if !ok || chat.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	chat.Title = title
	return chat, nil
}

func TestRenameChat(t *testing.T) {
	chatID := uuid.New()
	userID := uuid.New()
	repo := &fakeChatRepo{chats: map[uuid.UUID]*models.Chat{
		chatID: {ID: chatID, UserID: userID, Title: "New Chat"},
	}}
	svc := NewChatService(WithChatRepository(repo))

	result, err := svc.RenameChat(context.Background(), RenameChatRequest{
		ChatID: chatID,
		UserID: userID,
		Title:  "  Fire code questions  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Fire code questions", result.Chat.Title)
}

func TestRenameChat_EmptyTitle(t *testing.T) {
	svc := NewChatService(WithChatRepository(&fakeChatRepo{}))

	_, err := svc.RenameChat(context.Background(), RenameChatRequest{
		ChatID: uuid.New(),
		UserID: uuid.New(),
		Title:  "   ",
	})
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestRenameChat_NotOwned(t *testing.T) {
	chatID := uuid.New()
	repo := &fakeChatRepo{chats: map[uuid.UUID]*models.Chat{
		chatID: {ID: chatID, UserID: uuid.New(), Title: "New Chat"},
	}}
	svc := NewChatService(WithChatRepository(repo))

	_, err := svc.RenameChat(context.Background(), RenameChatRequest{
		ChatID: chatID,
		UserID: uuid.New(),
		Title:  "Renamed",
	})
	assert.ErrorIs(t, err, ErrChatNotFound)
}
