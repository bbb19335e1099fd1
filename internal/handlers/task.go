package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/dto"
	apierrors "github.com/yukikurage/hospital-task-points/internal/errors"
	"github.com/yukikurage/hospital-task-points/internal/middleware"
	"github.com/yukikurage/hospital-task-points/internal/services"
	"github.com/yukikurage/hospital-task-points/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListStaffTasks returns the active tasks of the caller's department with
// the caller's own submission attached
func (h *TaskHandler) ListStaffTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListTasksForStaff(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToStaffTaskDTOs(tasks)})
}

// ListTasks returns tasks for administrators
// Can filter by department_id and archived
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := services.ListTasksInput{
		Pagination: utils.GetPaginationParams(c, constants.MaxTaskPageSize),
	}

	if departmentIDStr := c.Query("department_id"); departmentIDStr != "" {
		departmentID, err := strconv.ParseUint(departmentIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid department_id")
			return
		}
		input.DepartmentID = &departmentID
	}
	if archivedStr := c.Query("archived"); archivedStr != "" {
		archived, err := strconv.ParseBool(archivedStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid archived")
			return
		}
		input.Archived = &archived
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, input.Pagination, total))
}

// GetTask returns a task with its submissions
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, submissions, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDetailResponse(*task, submissions))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), req.ToCreateTaskInput(userID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": dto.ToTaskDTO(*task)})
}

// BulkCreateTasks creates several tasks at once
func (h *TaskHandler) BulkCreateTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.BulkCreateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	inputs := make([]services.CreateTaskInput, len(req.Tasks))
	for i, t := range req.Tasks {
		inputs[i] = t.ToCreateTaskInput(userID)
	}

	tasks, err := h.taskService.CreateTasksBulk(c.Request.Context(), userID, inputs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"count": len(tasks),
	})
}

// UpdateTask updates an existing task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), services.UpdateTaskInput{
		TaskID:              taskID,
		ActorID:             userID,
		Title:               req.Title,
		Description:         req.Description,
		Type:                req.Type,
		Priority:            req.Priority,
		DefaultPoints:       req.DefaultPoints,
		DueAt:               req.DueAt,
		DepartmentID:        req.DepartmentID,
		AllowLateSubmission: req.AllowLateSubmission,
		RowVersion:          req.RowVersion,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// ArchiveTask archives a task by hand
func (h *TaskHandler) ArchiveTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.ArchiveTask(c.Request.Context(), taskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": dto.ToTaskDTO(*task)})
}

// DeleteTaskPermanently removes a task and its submissions
func (h *TaskHandler) DeleteTaskPermanently(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTaskPermanently(c.Request.Context(), taskID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task permanently deleted",
	})
}
