package service

import (
	"context"
	"errors"
	"fmt"

	"buildcode-backend/models"

	"github.com/google/uuid"
)

// EmbeddingRepository is the status reporter's view of embedding storage
type EmbeddingRepository interface {
	Create(ctx context.Context, embedding *models.MultimodalEmbedding) error
	SummaryByChatID(ctx context.Context, chatID uuid.UUID) (*models.EmbeddingSummary, error)
}

// EmbeddingService reports semantic-search readiness per chat
type EmbeddingService struct {
	embeddingRepo EmbeddingRepository
}

// EmbeddingServiceOption is a functional option for EmbeddingService
type EmbeddingServiceOption func(*EmbeddingService)

// WithEmbeddingRepository sets the embedding repository
func WithEmbeddingRepository(repo EmbeddingRepository) EmbeddingServiceOption {
	return func(s *EmbeddingService) {
		s.embeddingRepo = repo
	}
}

// NewEmbeddingService creates a new embedding service
func NewEmbeddingService(opts ...EmbeddingServiceOption) *EmbeddingService {
	s := &EmbeddingService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EmbeddingStatusRequest identifies the chat to report on
type EmbeddingStatusRequest struct {
	ChatID uuid.UUID
}

// EmbeddingStatusResult is the readiness report for one chat
type EmbeddingStatusResult struct {
	Available   bool
	Summary     models.EmbeddingSummary
	Message     string
	SearchReady bool
}

// GetEmbeddingStatus reports whether embeddings exist for a chat and
// their breakdown by modality
func (s *EmbeddingService) GetEmbeddingStatus(ctx context.Context, req EmbeddingStatusRequest) (*EmbeddingStatusResult, error) {
	if s.embeddingRepo == nil {
		return nil, errors.New("embedding repository not set")
	}

	summary, err := s.embeddingRepo.SummaryByChatID(ctx, req.ChatID)
	if err != nil {
		return nil, err
	}

	result := &EmbeddingStatusResult{
		Summary:     *summary,
		Available:   summary.Total > 0,
		SearchReady: summary.Total > 0,
	}

	if result.Available {
		result.Message = fmt.Sprintf("Found %d embeddings for this chat", summary.Total)
	} else {
		result.Message = "No embeddings found for this chat yet"
	}

	return result, nil
}
