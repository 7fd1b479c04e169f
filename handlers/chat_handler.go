package handlers

import (
	"errors"
	"net/http"

	"buildcode-backend/logger"
	"buildcode-backend/middleware"
	"buildcode-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler handles HTTP requests for chats
type ChatHandler struct {
	chatService *service.ChatService
	log         *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		log:         log.With("handler", "ChatHandler"),
	}
}

// RenameChatRequest represents the request body for renaming a chat
type RenameChatRequest struct {
	Title string `json:"title"`
}

// RenameChat handles PATCH /api/chats/:id
func (h *ChatHandler) RenameChat(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chat ID format"})
		return
	}

	var req RenameChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.chatService.RenameChat(c.Request.Context(), service.RenameChatRequest{
		ChatID: chatID,
		UserID: userID,
		Title:  req.Title,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyTitle):
			c.JSON(http.StatusBadRequest, gin.H{"error": "title must not be empty"})
		case errors.Is(err, service.ErrChatNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
		default:
			h.log.Error("failed to rename chat", "chatID", chatID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to rename chat",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"chat": result.Chat})
}
