package handlers

import (
	"context"

	"kamulog-stk/internal/adapters/persistence/models"
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/core/services"
	"kamulog-stk/internal/pkg/pagination"
	"kamulog-stk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member and resignation endpoints
type MemberHandler struct {
	members   services.MembershipLifecycle
	decisions services.DecisionLedger
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(members services.MembershipLifecycle, decisions services.DecisionLedger) *MemberHandler {
	return &MemberHandler{
		members:   members,
		decisions: decisions,
	}
}

// RegisterMemberRequest represents register member request
type RegisterMemberRequest struct {
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	MemberNumber string              `json:"member_number,omitempty"`
	Status       domain.MemberStatus `json:"status,omitempty" example:"PENDING"`
}

// ResignationRequest represents a resignation request
type ResignationRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ConfirmRequest names the board decision authorizing a status change
type ConfirmRequest struct {
	DecisionID string `json:"decision_id"`
}

func listMembersInput(c *fiber.Ctx) *services.ListMembersInput {
	params := pagination.GetParams(c)
	return &services.ListMembersInput{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   params.Page,
		Limit:  params.Limit,
	}
}

// List lists members
// @Summary List members
// @Description List members, filtered by status and a case-insensitive name or number search
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param status query string false "Member status"
// @Param search query string false "Name or member number"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	out, err := h.members.List(c.Context(), orgID(c), listMembersInput(c))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Members retrieved", out)
}

// Register registers a member
// @Summary Register member
// @Description Register a PENDING applicant or an already ACTIVE member (Officer only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterMemberRequest true "Member data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members [post]
func (h *MemberHandler) Register(c *fiber.Ctx) error {
	var req RegisterMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.members.Register(c.Context(), orgID(c), actor(c), &services.RegisterMemberInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MemberNumber: req.MemberNumber,
		Status:       req.Status,
	})
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "Member registered", fiber.Map{"member": member.ToResponse()})
}

// Get gets a member
// @Summary Get member
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id} [get]
func (h *MemberHandler) Get(c *fiber.Ctx) error {
	member, err := h.members.Get(c.Context(), orgID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Member retrieved", fiber.Map{"member": member.ToResponse()})
}

// ListLinks lists the decisions a member is linked to
// @Summary List member decision links
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /members/{id}/links [get]
func (h *MemberHandler) ListLinks(c *fiber.Ctx) error {
	links, err := h.decisions.ListForMember(c.Context(), orgID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Links retrieved", fiber.Map{"links": links})
}

// RequestResignation files a resignation request
// @Summary Request resignation
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body ResignationRequest false "Reason"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members/{id}/resignation [post]
func (h *MemberHandler) RequestResignation(c *fiber.Ctx) error {
	var req ResignationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	member, err := h.members.RequestResignation(c.Context(), orgID(c), actor(c), c.Params("id"), req.Reason)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Resignation requested", fiber.Map{"member": member.ToResponse()})
}

// WithdrawResignation withdraws a pending resignation request
// @Summary Withdraw resignation
// @Tags Members
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /members/{id}/resignation [delete]
func (h *MemberHandler) WithdrawResignation(c *fiber.Ctx) error {
	member, err := h.members.WithdrawResignation(c.Context(), orgID(c), actor(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Resignation withdrawn", fiber.Map{"member": member.ToResponse()})
}

type confirmFunc func(ctx context.Context, orgID string, actor domain.Actor, memberID, decisionID string) (*models.Member, error)

func confirmWithDecision(c *fiber.Ctx, confirm confirmFunc, message string) error {
	var req ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := confirm(c.Context(), orgID(c), actor(c), c.Params("id"), req.DecisionID)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, message, fiber.Map{"member": member.ToResponse()})
}

// ConfirmResignation confirms a resignation under a board decision
// @Summary Confirm resignation
// @Description Requires a finalized decision linked to the member as RESIGNATION_ACCEPT (Officer only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body ConfirmRequest true "Authorizing decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /members/{id}/resignation/confirm [post]
func (h *MemberHandler) ConfirmResignation(c *fiber.Ctx) error {
	return confirmWithDecision(c, h.members.ConfirmResignation, "Resignation confirmed")
}

// ConfirmAdmission admits an applicant under a board decision
// @Summary Confirm admission
// @Description Requires a finalized decision linked to the member as MEMBERSHIP_ACCEPT (Officer only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body ConfirmRequest true "Authorizing decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /members/{id}/admission/confirm [post]
func (h *MemberHandler) ConfirmAdmission(c *fiber.Ctx) error {
	return confirmWithDecision(c, h.members.ConfirmAdmission, "Admission confirmed")
}

// ConfirmExpulsion expels a member under a board decision
// @Summary Confirm expulsion
// @Description Requires a finalized decision linked to the member as EXPULSION (Officer only)
// @Tags Members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Member ID"
// @Param body body ConfirmRequest true "Authorizing decision"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /members/{id}/expulsion/confirm [post]
func (h *MemberHandler) ConfirmExpulsion(c *fiber.Ctx) error {
	return confirmWithDecision(c, h.members.ConfirmExpulsion, "Expulsion confirmed")
}

// ListResignations lists resignation requests and accepted resignations
// @Summary List resignations
// @Description Members in RESIGNATION_REQ or RESIGNED with per-status counts
// @Tags Resignations
// @Produce json
// @Security BearerAuth
// @Param status query string false "RESIGNATION_REQ or RESIGNED"
// @Param search query string false "Name or member number"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /resignations [get]
func (h *MemberHandler) ListResignations(c *fiber.Ctx) error {
	out, err := h.members.ListResignations(c.Context(), orgID(c), listMembersInput(c))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Resignations retrieved", out)
}

// ResignationDetail gets a member with its resignation decision links
// @Summary Resignation detail
// @Tags Resignations
// @Produce json
// @Security BearerAuth
// @Param member_id path string true "Member ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /resignations/{member_id} [get]
func (h *MemberHandler) ResignationDetail(c *fiber.Ctx) error {
	out, err := h.members.ResignationDetail(c.Context(), orgID(c), c.Params("member_id"))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Resignation retrieved", out)
}
