package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/service"
	"github.com/noah-isme/teamboard-api/internal/utils"
)

// ProjectHandler wires project HTTP routes.
type ProjectHandler struct {
	service service.ProjectService
	logger  zerolog.Logger
}

// NewProjectHandler constructs the handler.
func NewProjectHandler(service service.ProjectService, logger zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		logger:  logger.With().Str("component", "project_handler").Logger(),
	}
}

// Register attaches the project CRUD endpoints to the router group.
func (h *ProjectHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

// RegisterProgress attaches the read-only project views that carry task progress.
func (h *ProjectHandler) RegisterProgress(router fiber.Router) {
	router.Get("", h.listProgress)
	router.Get("/:id", h.getProgress)
}

func (h *ProjectHandler) list(c *fiber.Ctx) error {
	projects, err := h.service.List(c.UserContext(), requesterFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "list projects")
	}
	return utils.SendSuccess(c, "projects retrieved", projects)
}

func (h *ProjectHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	project, err := h.service.Get(c.UserContext(), requesterFromContext(c), id)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "get project")
	}
	return utils.SendSuccess(c, "project retrieved", project)
}

func (h *ProjectHandler) listProgress(c *fiber.Ctx) error {
	projects, err := h.service.ListWithProgress(c.UserContext(), requesterFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "list project progress")
	}
	return utils.SendSuccess(c, "projects retrieved", projects)
}

func (h *ProjectHandler) getProgress(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	project, err := h.service.GetWithProgress(c.UserContext(), requesterFromContext(c), id)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "get project progress")
	}
	return utils.SendSuccess(c, "project retrieved", project)
}

func (h *ProjectHandler) create(c *fiber.Ctx) error {
	var payload dto.ProjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	project, err := h.service.Create(c.UserContext(), requesterFromContext(c), payload)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "create project")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "project created", project)
}

func (h *ProjectHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProjectUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	project, err := h.service.Update(c.UserContext(), requesterFromContext(c), id, payload)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "update project")
	}
	return utils.SendSuccess(c, "project updated", project)
}

func (h *ProjectHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), requesterFromContext(c), id); err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "delete project")
	}
	return utils.SendSuccess(c, "project deleted", fiber.Map{"id": id})
}
