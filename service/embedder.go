package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/generative-ai-go/genai"
)

const (
	defaultEmbeddingModel = "gemini-embedding-001"
	maxEmbedRetries       = 3
	initialEmbedBackoff   = 500 * time.Millisecond
)

// Embedder produces a vector for a piece of text
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// GeminiEmbedder generates document embeddings with the Gemini API,
// retrying transient failures with exponential backoff
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGeminiEmbedder creates an embedder over an initialized Gemini client
func NewGeminiEmbedder(client *genai.Client, model string) *GeminiEmbedder {
	if model == "" {
		model = defaultEmbeddingModel
	}
	return &GeminiEmbedder{client: client, model: model}
}

// EmbedText embeds one text chunk and returns the normalized vector
func (e *GeminiEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	em := e.client.EmbeddingModel(e.model)
	em.TaskType = genai.TaskTypeRetrievalDocument

	var res *genai.EmbedContentResponse
	var err error

	backoff := initialEmbedBackoff
	for attempt := 0; attempt < maxEmbedRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		res, err = em.EmbedContent(ctx, genai.Text(text))
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("embedding failed after %d attempts: %w", maxEmbedRetries, err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding response contained no values")
	}

	values := res.Embedding.Values
	normalizeVector(values)
	return values, nil
}

// normalizeVector scales a vector to unit length in place
func normalizeVector(values []float32) {
	var norm float64
	for _, v := range values {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range values {
		values[i] = float32(float64(values[i]) / norm)
	}
}
