package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"buildcode-backend/logger"
	"buildcode-backend/middleware"
	"buildcode-backend/models"
	"buildcode-backend/repository"
	"buildcode-backend/service"
	"buildcode-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler handles source document uploads and ingestion polling
type DocumentHandler struct {
	documentRepo  *repository.CodeDocumentRepository
	versionRepo   *repository.CodeVersionRepository
	sectionRepo   *repository.CodeSectionRepository
	storage       storage.Storage
	ingestService *service.IngestService
	log           *logger.Logger

	maxFileSize      int64
	allowedMimeTypes map[string]bool
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	documentRepo *repository.CodeDocumentRepository,
	versionRepo *repository.CodeVersionRepository,
	sectionRepo *repository.CodeSectionRepository,
	store storage.Storage,
	ingestService *service.IngestService,
	log *logger.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		documentRepo:  documentRepo,
		versionRepo:   versionRepo,
		sectionRepo:   sectionRepo,
		storage:       store,
		ingestService: ingestService,
		log:           log.With("handler", "DocumentHandler"),
		maxFileSize:   25 * 1024 * 1024, // 25MB
		allowedMimeTypes: map[string]bool{
			"application/pdf": true,
			"text/plain":      true,
		},
	}
}

// UploadDocument handles POST /api/building-codes/:id/versions/:versionId/documents
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	versionID, err := uuid.Parse(c.Param("versionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid version ID format"})
		return
	}

	version, err := h.versionRepo.GetByID(c.Request.Context(), versionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Version not found"})
		return
	}

	// Optional chat scoping for the generated embeddings
	var chatID *uuid.UUID
	if chatIDStr := c.PostForm("chatId"); chatIDStr != "" {
		id, err := uuid.Parse(chatIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chatId format"})
			return
		}
		chatID = &id
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize),
		})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		name := strings.ToLower(fileHeader.Filename)
		switch {
		case strings.HasSuffix(name, ".pdf"):
			mimeType = "application/pdf"
		case strings.HasSuffix(name, ".txt"):
			mimeType = "text/plain"
		default:
			mimeType = "application/octet-stream"
		}
	}

	if !h.allowedMimeTypes[mimeType] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "File type not allowed. Allowed types: PDF, TXT",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read uploaded file",
			"details": err.Error(),
		})
		return
	}
	defer file.Close()

	docID := uuid.New()

	storagePath, err := h.storage.Upload(c.Request.Context(), docID, fileHeader.Filename, file)
	if err != nil {
		h.log.Error("document upload failed", "versionID", versionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to store document",
			"details": err.Error(),
		})
		return
	}

	doc := &models.CodeDocument{
		ID:          docID,
		UserID:      userID,
		VersionID:   &version.ID,
		Filename:    fileHeader.Filename,
		MimeType:    mimeType,
		Size:        fileHeader.Size,
		StoragePath: storagePath,
	}

	if err := h.documentRepo.Create(c.Request.Context(), doc); err != nil {
		// Best effort: do not leave an orphaned blob behind
		h.storage.Delete(c.Request.Context(), storagePath)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save document record",
			"details": err.Error(),
		})
		return
	}

	result, err := h.ingestService.StartIngest(c.Request.Context(), service.StartIngestRequest{
		VersionID:  version.ID,
		DocumentID: doc.ID,
		ChatID:     chatID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create ingest job",
			"details": err.Error(),
		})
		return
	}

	// Detach processing from the request so a disconnecting client
	// does not cancel it; the caller polls the job instead
	go func() {
		if err := h.ingestService.ProcessDocument(context.Background(), result.JobID); err != nil {
			h.log.Error("ingest job failed", "jobID", result.JobID, "error", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"jobId":      result.JobID,
		"documentId": doc.ID,
		"status":     "pending",
		"message":    "Document accepted. Poll /api/ingest-jobs/:id for progress.",
	})
}

// ListDocuments handles GET /api/building-codes/:id/versions/:versionId/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	versionID, err := uuid.Parse(c.Param("versionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid version ID format"})
		return
	}

	docs, err := h.documentRepo.ListByVersionID(c.Request.Context(), versionID)
	if err != nil {
		h.log.Error("failed to list documents", "versionID", versionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch documents",
			"details": err.Error(),
		})
		return
	}
	if docs == nil {
		docs = []*models.CodeDocument{}
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// ListSections handles GET /api/building-codes/:id/versions/:versionId/sections
func (h *DocumentHandler) ListSections(c *gin.Context) {
	versionID, err := uuid.Parse(c.Param("versionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid version ID format"})
		return
	}

	if _, err := h.versionRepo.GetByID(c.Request.Context(), versionID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Version not found"})
		return
	}

	sections, err := h.sectionRepo.ListByVersionID(c.Request.Context(), versionID)
	if err != nil {
		h.log.Error("failed to list sections", "versionID", versionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch sections",
			"details": err.Error(),
		})
		return
	}
	if sections == nil {
		sections = []*models.BuildingCodeSection{}
	}

	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// GetIngestJob handles GET /api/ingest-jobs/:id
func (h *DocumentHandler) GetIngestJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job ID format"})
		return
	}

	result, err := h.ingestService.GetJobStatus(c.Request.Context(), service.GetJobStatusRequest{
		JobID: jobID,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ingest job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": result.Job})
}
