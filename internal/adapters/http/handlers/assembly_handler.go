package handlers

import (
	"kamulog-stk/internal/core/domain"
	"kamulog-stk/internal/core/services"
	"kamulog-stk/internal/pkg/pagination"
	"kamulog-stk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AssemblyHandler handles general assembly endpoints
type AssemblyHandler struct {
	assemblies services.AssemblyRegistry
}

// NewAssemblyHandler creates a new assembly handler
func NewAssemblyHandler(assemblies services.AssemblyRegistry) *AssemblyHandler {
	return &AssemblyHandler{
		assemblies: assemblies,
	}
}

// CreateAssemblyRequest represents create assembly request
type CreateAssemblyRequest struct {
	Type           domain.AssemblyType        `json:"type" example:"OLAGAN"`
	Number         string                     `json:"number"`
	Date           string                     `json:"date" example:"2026-03-28T10:00:00Z"`
	Location       string                     `json:"location,omitempty"`
	QuorumRequired int                        `json:"quorum_required"`
	Agenda         []services.AgendaItemInput `json:"agenda,omitempty"`
}

// UpdateAssemblyRequest represents update assembly request
type UpdateAssemblyRequest struct {
	Date     *string `json:"date,omitempty"`
	Location *string `json:"location,omitempty"`
}

// AssemblyStatusRequest represents a status change request
type AssemblyStatusRequest struct {
	Status domain.AssemblyStatus `json:"status" example:"IN_PROGRESS"`
}

// List lists assemblies
// @Summary List assemblies
// @Tags Assemblies
// @Produce json
// @Security BearerAuth
// @Param status query string false "Assembly status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /assemblies [get]
func (h *AssemblyHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	out, err := h.assemblies.List(c.Context(), orgID(c), &services.ListAssembliesInput{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Assemblies retrieved", out)
}

// Create plans a new assembly
// @Summary Create assembly
// @Description Plan a general assembly with its agenda (Officer only)
// @Tags Assemblies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAssemblyRequest true "Assembly data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /assemblies [post]
func (h *AssemblyHandler) Create(c *fiber.Ctx) error {
	var req CreateAssemblyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return handleError(c, err)
	}

	assembly, err := h.assemblies.Create(c.Context(), orgID(c), actor(c), &services.CreateAssemblyInput{
		Type:           req.Type,
		Number:         req.Number,
		Date:           date,
		Location:       req.Location,
		QuorumRequired: req.QuorumRequired,
		Agenda:         req.Agenda,
	})
	if err != nil {
		return handleError(c, err)
	}
	return response.Created(c, "Assembly created", fiber.Map{"assembly": assembly})
}

// Get gets an assembly with its agenda
// @Summary Get assembly
// @Tags Assemblies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assembly ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /assemblies/{id} [get]
func (h *AssemblyHandler) Get(c *fiber.Ctx) error {
	assembly, err := h.assemblies.Get(c.Context(), orgID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Assembly retrieved", fiber.Map{"assembly": assembly})
}

// Update changes the date or location of an open assembly
// @Summary Update assembly
// @Tags Assemblies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assembly ID"
// @Param body body UpdateAssemblyRequest true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /assemblies/{id} [put]
func (h *AssemblyHandler) Update(c *fiber.Ctx) error {
	var req UpdateAssemblyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return handleError(c, err)
	}

	assembly, err := h.assemblies.Update(c.Context(), orgID(c), actor(c), c.Params("id"), &services.UpdateAssemblyInput{
		Date:     date,
		Location: req.Location,
	})
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Assembly updated", fiber.Map{"assembly": assembly})
}

// UpdateStatus advances the assembly status
// @Summary Change assembly status
// @Description PLANNED to IN_PROGRESS or CANCELLED, IN_PROGRESS to COMPLETED or CANCELLED (Officer only)
// @Tags Assemblies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assembly ID"
// @Param body body AssemblyStatusRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /assemblies/{id}/status [put]
func (h *AssemblyHandler) UpdateStatus(c *fiber.Ctx) error {
	var req AssemblyStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	assembly, err := h.assemblies.AdvanceStatus(c.Context(), orgID(c), actor(c), c.Params("id"), req.Status)
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Assembly status updated", fiber.Map{"assembly": assembly})
}

// Delete deletes an assembly that is not completed
// @Summary Delete assembly
// @Tags Assemblies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assembly ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /assemblies/{id} [delete]
func (h *AssemblyHandler) Delete(c *fiber.Ctx) error {
	if err := h.assemblies.Delete(c.Context(), orgID(c), actor(c), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Assembly deleted", nil)
}

// Quorum reports the live quorum status
// @Summary Quorum status
// @Description Attendees plus approved proxies against the required quorum
// @Tags Assemblies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assembly ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /assemblies/{id}/quorum [get]
func (h *AssemblyHandler) Quorum(c *fiber.Ctx) error {
	quorum, err := h.assemblies.Quorum(c.Context(), orgID(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return response.Success(c, "Quorum retrieved", fiber.Map{"quorum": quorum})
}
