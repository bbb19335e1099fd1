package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/dto"
	apierrors "github.com/yukikurage/hospital-task-points/internal/errors"
	"github.com/yukikurage/hospital-task-points/internal/logger"
	"github.com/yukikurage/hospital-task-points/internal/services"
	"go.uber.org/zap"
)

// respondServiceError maps a service error onto the API error envelope.
// Unknown errors are logged and reported without detail.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError

	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequest(c, validationErr.Error())
	case errors.As(err, &conflictErr):
		apierrors.VersionConflict(c, conflictErr.Error(), dto.ToConflictCurrent(conflictErr.Current))
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, apierrors.ErrCodeTaskNotFound, "Task not found")
	case errors.Is(err, services.ErrSubmissionNotFound):
		apierrors.NotFound(c, apierrors.ErrCodeSubmissionNotFound, "Submission not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, apierrors.ErrCodeUserNotFound, "User not found")
	case errors.Is(err, services.ErrDepartmentNotFound):
		apierrors.NotFound(c, apierrors.ErrCodeDepartmentNotFound, "Department not found")
	case errors.Is(err, services.ErrTemplateNotFound):
		apierrors.NotFound(c, apierrors.ErrCodeTemplateNotFound, "Template not found")
	case errors.Is(err, services.ErrSelfAction):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeSelfAction, "You cannot do this to your own account")
	case errors.Is(err, services.ErrTaskArchived):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeTaskArchived, "Cannot submit to archived task")
	case errors.Is(err, services.ErrTaskAlreadyArchived):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeTaskAlreadyArchived, "Task is already archived")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, "")
	case errors.Is(err, services.ErrInactiveUser):
		apierrors.Forbidden(c, "Account is inactive")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email already registered")
	case errors.Is(err, services.ErrDepartmentExists):
		apierrors.Conflict(c, "Department already exists")
	default:
		logger.Error("request failed", err,
			zap.String("request_id", c.GetString(constants.ContextKeyRequest)),
			zap.String("path", c.FullPath()),
		)
		apierrors.InternalError(c, "")
	}
}

// parseIDParam reads a positive numeric path parameter. It writes a 400
// response and returns false when the value is malformed.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
