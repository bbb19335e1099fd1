package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/dto"
	apierrors "github.com/yukikurage/hospital-task-points/internal/errors"
	"github.com/yukikurage/hospital-task-points/internal/services"
	"github.com/yukikurage/hospital-task-points/internal/utils"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListAuditLogs queries the audit trail
// Filters: entity_type, entity_id, from, to (RFC 3339)
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	input := services.ListAuditInput{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Pagination: utils.GetPaginationParams(c, constants.MaxAuditPageSize),
	}

	for _, bound := range []struct {
		name   string
		target **time.Time
	}{
		{"from", &input.From},
		{"to", &input.To},
	} {
		raw := c.Query(bound.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid "+bound.name+": expected RFC 3339 timestamp")
			return
		}
		*bound.target = &t
	}

	entries, total, err := h.auditService.List(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditListResponse(entries, input.Pagination, total))
}
