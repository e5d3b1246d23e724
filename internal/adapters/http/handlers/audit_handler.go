package handlers

import (
	"kamulog-stk/internal/core/services"
	"kamulog-stk/internal/pkg/pagination"
	"kamulog-stk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuditHandler handles audit trail endpoints
type AuditHandler struct {
	audit services.AuditTrail
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audit services.AuditTrail) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List lists audit entries
// @Summary List audit entries
// @Description Newest first, optionally narrowed to one entity (Admin only)
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param entity_type query string false "DECISION, MEMBER, MEMBER_LINK, ASSEMBLY, ATTENDEE or PROXY"
// @Param entity_id query string false "Entity ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	out, err := h.audit.List(c.Context(), orgID(c), &services.ListAuditInput{
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Page:       params.Page,
		Limit:      params.Limit,
	})
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Audit entries retrieved", out)
}
