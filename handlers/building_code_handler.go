package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"buildcode-backend/logger"
	"buildcode-backend/models"
	"buildcode-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BuildingCodeHandler handles HTTP requests for the building code catalog
type BuildingCodeHandler struct {
	catalogService *service.CatalogService
	log            *logger.Logger
}

// NewBuildingCodeHandler creates a new building code handler
func NewBuildingCodeHandler(catalogService *service.CatalogService, log *logger.Logger) *BuildingCodeHandler {
	return &BuildingCodeHandler{
		catalogService: catalogService,
		log:            log.With("handler", "BuildingCodeHandler"),
	}
}

// ListBuildingCodes handles GET /api/building-codes
func (h *BuildingCodeHandler) ListBuildingCodes(c *gin.Context) {
	req := service.ListBuildingCodesRequest{
		CodeType:        c.Query("codeType"),
		Jurisdiction:    c.Query("jurisdiction"),
		IncludeInactive: c.Query("includeInactive") == "true",
	}

	result, err := h.catalogService.ListBuildingCodes(c.Request.Context(), req)
	if err != nil {
		h.log.Error("failed to list building codes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch building codes",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"codes":   result.Codes,
		"stats":   result.Stats,
		"filters": result.Filters,
	})
}

// CreateBuildingCodeRequest represents the request body for creating a
// building code
type CreateBuildingCodeRequest struct {
	CodeName      string `json:"codeName"`
	Abbreviation  string `json:"codeAbbreviation"`
	Jurisdiction  string `json:"jurisdiction"`
	CodeType      string `json:"codeType"`
	Description   string `json:"description"`
	OfficialURL   string `json:"officialUrl"`
	Version       string `json:"version"`
	EffectiveDate string `json:"effectiveDate"`
}

// CreateBuildingCode handles POST /api/building-codes
func (h *BuildingCodeHandler) CreateBuildingCode(c *gin.Context) {
	var req CreateBuildingCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	serviceReq := service.CreateBuildingCodeRequest{
		CodeName:     req.CodeName,
		Abbreviation: req.Abbreviation,
		Jurisdiction: req.Jurisdiction,
		CodeType:     req.CodeType,
		Description:  req.Description,
		OfficialURL:  req.OfficialURL,
		Version:      req.Version,
	}

	if req.EffectiveDate != "" {
		effectiveDate, err := parseDate(req.EffectiveDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid effectiveDate, expected YYYY-MM-DD",
			})
			return
		}
		serviceReq.EffectiveDate = &effectiveDate
	}

	result, err := h.catalogService.CreateBuildingCode(c.Request.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingRequiredFields):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "codeName, codeAbbreviation, and codeType are required",
			})
		case errors.Is(err, service.ErrInvalidCodeType):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Invalid codeType. Allowed values: %s", allowedCodeTypes()),
			})
		case errors.Is(err, service.ErrDuplicateAbbreviation):
			c.JSON(http.StatusConflict, gin.H{
				"error": "A building code with this abbreviation already exists",
			})
		default:
			h.log.Error("failed to create building code", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to create building code",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    result.Code,
		"version": result.Version,
		"message": "Building code created successfully",
	})
}

// SetActiveRequest represents the request body for toggling a code's
// active flag
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SetActive handles PATCH /api/building-codes/:id
func (h *BuildingCodeHandler) SetActive(c *gin.Context) {
	codeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid building code ID format"})
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "isActive is required",
		})
		return
	}

	result, err := h.catalogService.SetCodeActive(c.Request.Context(), service.SetCodeActiveRequest{
		CodeID: codeID,
		Active: *req.IsActive,
	})
	if err != nil {
		if errors.Is(err, service.ErrCodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Building code not found"})
			return
		}
		h.log.Error("failed to update building code", "codeID", codeID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update building code",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": result.Code})
}

// parseDate accepts plain dates and full RFC 3339 timestamps
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func allowedCodeTypes() string {
	names := make([]string, len(models.AllCodeTypes))
	for i, t := range models.AllCodeTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
