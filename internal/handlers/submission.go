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
)

// SubmissionHandler serves submission reporting and review.
type SubmissionHandler struct {
	submissionService *services.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
	}
}

// Submit records the caller's status for a task.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "status is required")
		return
	}

	result, err := h.submissionService.Submit(c.Request.Context(), services.SubmitInput{
		TaskID:           taskID,
		UserID:           userID,
		Status:           req.Status,
		NotStartedReason: req.NotStartedReason,
		EvidenceURL:      req.EvidenceURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSubmitResponse(result))
}

// Override sets the awarded points of a submission.
func (h *SubmissionHandler) Override(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	submission, err := h.submissionService.Override(c.Request.Context(), services.OverrideInput{
		SubmissionID:  submissionID,
		ActorID:       userID,
		PointsAwarded: req.PointsAwarded,
		Reason:        req.Reason,
		RowVersion:    req.RowVersion,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submission": dto.ToSubmissionDTO(*submission)})
}

// Reject marks a submission rejected.
func (h *SubmissionHandler) Reject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	submissionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	submission, err := h.submissionService.Reject(c.Request.Context(), services.RejectInput{
		SubmissionID: submissionID,
		ActorID:      userID,
		Reason:       req.RejectionReason,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submission": dto.ToSubmissionDTO(*submission)})
}

// ListMySubmissions lists the caller's own submissions.
func (h *SubmissionHandler) ListMySubmissions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	submissions, err := h.submissionService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SubmissionListResponse{Submissions: dto.ToSubmissionDTOs(submissions)})
}

// ListUserSubmissions lists every submission of the user in the path.
func (h *SubmissionHandler) ListUserSubmissions(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	submissions, err := h.submissionService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SubmissionListResponse{Submissions: dto.ToSubmissionDTOs(submissions)})
}

// ListRecentSubmissions returns the newest submissions across departments
func (h *SubmissionHandler) ListRecentSubmissions(c *gin.Context) {
	limit := constants.DefaultRecentSubmissions
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			apierrors.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	submissions, err := h.submissionService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SubmissionListResponse{Submissions: dto.ToSubmissionDTOs(submissions)})
}

// ListAllSubmissions returns the submission feed up to its cap
func (h *SubmissionHandler) ListAllSubmissions(c *gin.Context) {
	submissions, err := h.submissionService.ListRecent(c.Request.Context(), constants.MaxRecentSubmissions)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SubmissionListResponse{Submissions: dto.ToSubmissionDTOs(submissions)})
}
