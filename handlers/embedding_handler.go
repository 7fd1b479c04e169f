package handlers

import (
	"net/http"

	"buildcode-backend/logger"
	"buildcode-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EmbeddingHandler handles HTTP requests for embedding status
type EmbeddingHandler struct {
	embeddingService *service.EmbeddingService
	log              *logger.Logger
}

// NewEmbeddingHandler creates a new embedding handler
func NewEmbeddingHandler(embeddingService *service.EmbeddingService, log *logger.Logger) *EmbeddingHandler {
	return &EmbeddingHandler{
		embeddingService: embeddingService,
		log:              log.With("handler", "EmbeddingHandler"),
	}
}

// GetEmbeddingStatus handles GET /api/embeddings/status
func (h *EmbeddingHandler) GetEmbeddingStatus(c *gin.Context) {
	chatIDStr := c.Query("chatId")
	if chatIDStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "chatId query parameter is required",
		})
		return
	}

	chatID, err := uuid.Parse(chatIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid chatId format",
		})
		return
	}

	result, err := h.embeddingService.GetEmbeddingStatus(c.Request.Context(), service.EmbeddingStatusRequest{
		ChatID: chatID,
	})
	if err != nil {
		h.log.Error("failed to fetch embedding status", "chatID", chatID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to check embedding status",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chatId":              chatID,
		"embeddingsAvailable": result.Available,
		"summary":             result.Summary,
		"message":             result.Message,
		"searchReady":         result.SearchReady,
	})
}
