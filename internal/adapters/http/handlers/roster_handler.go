package handlers

import (
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/core/services"
	"kamulog-stk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RosterHandler handles attendee and proxy endpoints of an assembly
type RosterHandler struct {
	roster services.AssemblyRoster
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(roster services.AssemblyRoster) *RosterHandler {
	return &RosterHandler{
		roster: roster,
	}
}

// CheckInRequest represents check-in request
type CheckInRequest struct {
	MemberID   string            `json:"member_id"`
	AttendType domain.AttendType `json:"attend_type,omitempty" example:"IN_PERSON"`
}

// SignatureRequest represents a signature change
type SignatureRequest struct {
	Signed bool `json:"signed"`
}

// GrantProxyRequest represents grant proxy request
type GrantProxyRequest struct {
	GiverID     string  `json:"giver_id"`
	ReceiverID  string  `json:"receiver_id"`
	DocumentRef *string `json:"document_ref,omitempty"`
}

// ApprovalRequest represents a proxy approval change
type ApprovalRequest struct {
	Approved bool `json:"approved"`
}

// ListAttendees lists the attendees of an assembly
// @Summary List attendees
// @Tags Roster
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assembly ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /assemblies/{id}/attendees [get]
func (h *RosterHandler) ListAttendees(c *fiber.Ctx) error {
	attendees, err := h.roster.ListAttendees(c.Context(), orgID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Attendees retrieved", fiber.Map{"attendees": attendees})
}

// CheckIn records a member as present
// @Summary Check in member
// @Tags Roster
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assembly ID"
// @Param body body CheckInRequest true "Attendee data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /assemblies/{id}/attendees [post]
func (h *RosterHandler) CheckIn(c *fiber.Ctx) error {
	var req CheckInRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	attendee, err := h.roster.CheckIn(c.Context(), orgID(c), actor(c), c.Params("id"), req.MemberID, req.AttendType)
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "Member checked in", fiber.Map{"attendee": attendee})
}

// SetSignature marks the attendance sheet signature
// @Summary Set attendee signature
// @Tags Roster
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assembly ID"
// @Param attendee_id path string true "Attendee ID"
// @Param body body SignatureRequest true "Signature"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /assemblies/{id}/attendees/{attendee_id}/signature [put]
func (h *RosterHandler) SetSignature(c *fiber.Ctx) error {
	var req SignatureRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	attendee, err := h.roster.ToggleSignature(c.Context(), orgID(c), actor(c), c.Params("id"), c.Params("attendee_id"), req.Signed)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Signature updated", fiber.Map{"attendee": attendee})
}

// RemoveAttendee removes an attendee
// @Summary Remove attendee
// @Tags Roster
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assembly ID"
// @Param attendee_id path string true "Attendee ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /assemblies/{id}/attendees/{attendee_id} [delete]
func (h *RosterHandler) RemoveAttendee(c *fiber.Ctx) error {
	if err := h.roster.RemoveAttendee(c.Context(), orgID(c), actor(c), c.Params("id"), c.Params("attendee_id")); err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Attendee removed", nil)
}

// ListProxies lists the proxies of an assembly
// @Summary List proxies
// @Tags Roster
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assembly ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /assemblies/{id}/proxies [get]
func (h *RosterHandler) ListProxies(c *fiber.Ctx) error {
	proxies, err := h.roster.ListProxies(c.Context(), orgID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Proxies retrieved", fiber.Map{"proxies": proxies})
}

// GrantProxy records a proxy from giver to receiver
// @Summary Grant proxy
// @Tags Roster
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assembly ID"
// @Param body body GrantProxyRequest true "Proxy data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /assemblies/{id}/proxies [post]
func (h *RosterHandler) GrantProxy(c *fiber.Ctx) error {
	var req GrantProxyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	proxy, err := h.roster.GrantProxy(c.Context(), orgID(c), actor(c), c.Params("id"), &services.GrantProxyInput{
		GiverID:     req.GiverID,
		ReceiverID:  req.ReceiverID,
		DocumentRef: req.DocumentRef,
	})
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "Proxy granted", fiber.Map{"proxy": proxy})
}

// SetApproval approves or revokes a proxy
// @Summary Set proxy approval
// @Tags Roster
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assembly ID"
// @Param proxy_id path string true "Proxy ID"
// @Param body body ApprovalRequest true "Approval"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /assemblies/{id}/proxies/{proxy_id}/approval [put]
func (h *RosterHandler) SetApproval(c *fiber.Ctx) error {
	var req ApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	proxy, err := h.roster.SetApproval(c.Context(), orgID(c), actor(c), c.Params("id"), c.Params("proxy_id"), req.Approved)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Proxy approval updated", fiber.Map{"proxy": proxy})
}

// RemoveProxy removes a proxy
// @Summary Remove proxy
// @Tags Roster
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assembly ID"
// @Param proxy_id path string true "Proxy ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /assemblies/{id}/proxies/{proxy_id} [delete]
func (h *RosterHandler) RemoveProxy(c *fiber.Ctx) error {
	if err := h.roster.RemoveProxy(c.Context(), orgID(c), actor(c), c.Params("id"), c.Params("proxy_id")); err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Proxy removed", nil)
}
