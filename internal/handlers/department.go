package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/hospital-task-points/internal/dto"
	apierrors "github.com/yukikurage/hospital-task-points/internal/errors"
	"github.com/yukikurage/hospital-task-points/internal/services"
)

type DepartmentHandler struct {
	departmentService *services.DepartmentService
}

func NewDepartmentHandler(departmentService *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService}
}

// ListDepartments returns all departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	departments, err := h.departmentService.ListDepartments(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"departments": dto.ToDepartmentDTOs(departments)})
}

// CreateDepartment adds a department
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "name is required")
		return
	}

	department, err := h.departmentService.CreateDepartment(c.Request.Context(), req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"department": dto.ToDepartmentDTO(*department)})
}
