package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/hospital-task-points/internal/dto"
	apierrors "github.com/yukikurage/hospital-task-points/internal/errors"
	"github.com/yukikurage/hospital-task-points/internal/middleware"
	"github.com/yukikurage/hospital-task-points/internal/services"
)

type TemplateHandler struct {
	templateService *services.TemplateService
}

func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// ListTemplates returns every template, newest first
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templateService.ListTemplates(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": dto.ToTemplateDTOs(templates)})
}

// CreateTemplate stores a new template
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), req.ToCreateTemplateInput(userID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"template": dto.ToTemplateDTO(*template)})
}

// GetTemplate returns one template
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	template, err := h.templateService.GetTemplate(c.Request.Context(), templateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": dto.ToTemplateDTO(*template)})
}

// DeleteTemplate removes a template
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.templateService.DeleteTemplate(c.Request.Context(), templateID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

// InstantiateTemplate creates a task from a template
func (h *TemplateHandler) InstantiateTemplate(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.InstantiateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.templateService.Instantiate(c.Request.Context(), services.InstantiateTemplateInput{
		TemplateID:   templateID,
		ActorID:      userID,
		DueAt:        req.DueAt,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": dto.ToTaskDTO(*task)})
}
