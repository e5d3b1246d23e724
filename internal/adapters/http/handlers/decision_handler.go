package handlers

import (
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/core/services"
	"kamulog-stk/internal/pkg/pagination"
	"kamulog-stk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DecisionHandler handles board decision endpoints
type DecisionHandler struct {
	decisions services.DecisionLedger
}

// NewDecisionHandler creates a new decision handler
func NewDecisionHandler(decisions services.DecisionLedger) *DecisionHandler {
	return &DecisionHandler{
		decisions: decisions,
	}
}

// CreateDecisionRequest represents create decision request
type CreateDecisionRequest struct {
	Number       string `json:"number"`
	DecisionDate string `json:"decision_date" example:"2026-01-15"`
	Subject      string `json:"subject"`
	Content      string `json:"content,omitempty"`
	Description  string `json:"description,omitempty"`
}

// UpdateDecisionRequest represents update decision request
type UpdateDecisionRequest struct {
	DecisionDate *string `json:"decision_date,omitempty"`
	Subject      *string `json:"subject,omitempty"`
	Content      *string `json:"content,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// FinalizeDecisionRequest represents finalize decision request
type FinalizeDecisionRequest struct {
	Links []services.LinkInput `json:"links,omitempty"`
}

// LinkMemberRequest represents link member request
type LinkMemberRequest struct {
	MemberID string          `json:"member_id"`
	LinkType domain.LinkType `json:"link_type"`
}

// List lists decisions
// @Summary List decisions
// @Description List board decisions, newest first
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Param status query string false "DRAFT or FINALIZED"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /decisions [get]
func (h *DecisionHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	out, err := h.decisions.List(c.Context(), orgID(c), &services.ListDecisionsInput{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Decisions retrieved", out)
}

// Create creates a draft decision
// @Summary Create decision
// @Description Record a new DRAFT board decision (Officer only)
// @Tags Decisions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateDecisionRequest true "Decision data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /decisions [post]
func (h *DecisionHandler) Create(c *fiber.Ctx) error {
	var req CreateDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	date, err := parseDate(req.DecisionDate)
	if err != nil {
		return handleError(c, err)
	}

	decision, err := h.decisions.CreateDraft(c.Context(), orgID(c), actor(c), &services.CreateDecisionInput{
		Number:       req.Number,
		DecisionDate: date,
		Subject:      req.Subject,
		Content:      req.Content,
		Description:  req.Description,
	})
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "Decision created", fiber.Map{"decision": decision})
}

// Get gets a decision with its member links
// @Summary Get decision
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Decision ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /decisions/{id} [get]
func (h *DecisionHandler) Get(c *fiber.Ctx) error {
	decision, err := h.decisions.Get(c.Context(), orgID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Decision retrieved", fiber.Map{"decision": decision})
}

// Update edits a draft decision
// @Summary Update decision
// @Description Edit a DRAFT decision; finalized decisions are immutable (Officer only)
// @Tags Decisions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Decision ID"
// @Param body body UpdateDecisionRequest true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /decisions/{id} [put]
func (h *DecisionHandler) Update(c *fiber.Ctx) error {
	var req UpdateDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	date, err := parseOptionalDate(req.DecisionDate)
	if err != nil {
		return handleError(c, err)
	}

	decision, err := h.decisions.UpdateDraft(c.Context(), orgID(c), actor(c), c.Params("id"), &services.UpdateDecisionInput{
		DecisionDate: date,
		Subject:      req.Subject,
		Content:      req.Content,
		Description:  req.Description,
	})
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Decision updated", fiber.Map{"decision": decision})
}

// Finalize finalizes a draft decision
// @Summary Finalize decision
// @Description Finalize a DRAFT decision, optionally linking members in the same step (Officer only)
// @Tags Decisions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Decision ID"
// @Param body body FinalizeDecisionRequest false "Member links"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /decisions/{id}/finalize [post]
func (h *DecisionHandler) Finalize(c *fiber.Ctx) error {
	var req FinalizeDecisionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	decision, err := h.decisions.Finalize(c.Context(), orgID(c), actor(c), c.Params("id"), req.Links)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Decision finalized", fiber.Map{"decision": decision})
}

// Delete deletes a draft decision
// @Summary Delete decision
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Decision ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /decisions/{id} [delete]
func (h *DecisionHandler) Delete(c *fiber.Ctx) error {
	if err := h.decisions.Delete(c.Context(), orgID(c), actor(c), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Decision deleted", nil)
}

// ListLinks lists the members linked to a decision
// @Summary List decision links
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Decision ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /decisions/{id}/links [get]
func (h *DecisionHandler) ListLinks(c *fiber.Ctx) error {
	links, err := h.decisions.ListForDecision(c.Context(), orgID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Links retrieved", fiber.Map{"links": links})
}

// Link links a member to a decision
// @Summary Link member
// @Description Link a member to a decision with a link type (Officer only)
// @Tags Decisions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Decision ID"
// @Param body body LinkMemberRequest true "Link data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /decisions/{id}/links [post]
func (h *DecisionHandler) Link(c *fiber.Ctx) error {
	var req LinkMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	link, err := h.decisions.Link(c.Context(), orgID(c), actor(c), c.Params("id"), req.MemberID, req.LinkType)
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "Member linked", fiber.Map{"link": link})
}

// Unlink removes a member link
// @Summary Unlink member
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Decision ID"
// @Param link_id path string true "Link ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /decisions/{id}/links/{link_id} [delete]
func (h *DecisionHandler) Unlink(c *fiber.Ctx) error {
	if err := h.decisions.Unlink(c.Context(), orgID(c), actor(c), c.Params("id"), c.Params("link_id")); err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Member unlinked", nil)
}
