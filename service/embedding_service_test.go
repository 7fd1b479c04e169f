package service

import (
	"context"
	"errors"
	"testing"

	"buildcode-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbeddingRepo struct {
	summaries  map[uuid.UUID]*models.EmbeddingSummary
	summaryErr error
	created    []*models.MultimodalEmbedding
	createErr  error
}

func (f *fakeEmbeddingRepo) Create(ctx context.Context, embedding *models.MultimodalEmbedding) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, embedding)
	return nil
}

func (f *fakeEmbeddingRepo) SummaryByChatID(ctx context.Context, chatID uuid.UUID) (*models.EmbeddingSummary, error) {
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	if summary, ok := f.summaries[chatID]; ok {
		return summary, nil
	}
	return &models.EmbeddingSummary{}, nil
}

func TestGetEmbeddingStatus_NoEmbeddings(t *testing.T) {
	svc := NewEmbeddingService(WithEmbeddingRepository(&fakeEmbeddingRepo{}))

	result, err := svc.GetEmbeddingStatus(context.Background(), EmbeddingStatusRequest{ChatID: uuid.New()})
	require.NoError(t, err)

	assert.False(t, result.Available)
	assert.False(t, result.SearchReady)
	assert.Equal(t, 0, result.Summary.Total)
	assert.Equal(t, "No embeddings found for this chat yet", result.Message)
}

func TestGetEmbeddingStatus_WithEmbeddings(t *testing.T) {
	chatID := uuid.New()
	repo := &fakeEmbeddingRepo{
		summaries: map[uuid.UUID]*models.EmbeddingSummary{
			chatID: {Total: 7, Textual: 5, Visual: 1, Combined: 1},
		},
	}
	svc := NewEmbeddingService(WithEmbeddingRepository(repo))

	result, err := svc.GetEmbeddingStatus(context.Background(), EmbeddingStatusRequest{ChatID: chatID})
	require.NoError(t, err)

	assert.True(t, result.Available)
	assert.True(t, result.SearchReady)
	assert.Equal(t, 7, result.Summary.Total)
	assert.Equal(t, 5, result.Summary.Textual)
	assert.Equal(t, 1, result.Summary.Visual)
	assert.Equal(t, 1, result.Summary.Combined)
	assert.Equal(t, "Found 7 embeddings for this chat", result.Message)
}

func TestGetEmbeddingStatus_RepositoryError(t *testing.T) {
	repo := &fakeEmbeddingRepo{summaryErr: errors.New("connection refused")}
	svc := NewEmbeddingService(WithEmbeddingRepository(repo))

	_, err := svc.GetEmbeddingStatus(context.Background(), EmbeddingStatusRequest{ChatID: uuid.New()})
	require.Error(t, err)
}
