package service

import (
	"context"
	"errors"
	"strings"

	"buildcode-backend/models"

	"github.com/google/uuid"
)

// Chat errors surfaced to the HTTP layer
var (
	ErrChatNotFound = errors.New("chat not found")
	ErrEmptyTitle   = errors.New("title must not be empty")
)

// ChatRepository is the chat service's view of chat storage
type ChatRepository interface {
	UpdateTitle(ctx context.Context, id, userID uuid.UUID, title string) (*models.Chat, error)
}

// ChatService handles chat mutations initiated from the UI
type ChatService struct {
	chatRepo ChatRepository
}

// ChatServiceOption is a functional option for ChatService
type ChatServiceOption func(*ChatService)

// WithChatRepository sets the chat repository
func WithChatRepository(repo ChatRepository) ChatServiceOption {
	return func(s *ChatService) {
		s.chatRepo = repo
	}
}

// NewChatService creates a new chat service
func NewChatService(opts ...ChatServiceOption) *ChatService {
	s := &ChatService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RenameChatRequest identifies the chat and its new title. UserID scopes
// the rename to chats the caller owns.
type RenameChatRequest struct {
	ChatID uuid.UUID
	UserID uuid.UUID
	Title  string
}

// RenameChatResult is the updated chat
type RenameChatResult struct {
	Chat *models.Chat
}

// RenameChat updates a chat's title
func (s *ChatService) RenameChat(ctx context.Context, req RenameChatRequest) (*RenameChatResult, error) {
	if s.chatRepo == nil {
		return nil, errors.New("chat repository not set")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	chat, err := s.chatRepo.UpdateTitle(ctx, req.ChatID, req.UserID, title)
	if err != nil {
		return nil, ErrChatNotFound
	}

	return &RenameChatResult{Chat: chat}, nil
}
