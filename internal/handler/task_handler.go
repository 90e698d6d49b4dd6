package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/service"
	"github.com/noah-isme/teamboard-api/internal/utils"
)

// TaskHandler wires task HTTP routes. The same handler serves every role; the service scopes
// each call to the requester.
type TaskHandler struct {
	service service.TaskService
	logger  zerolog.Logger
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(service service.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger.With().Str("component", "task_handler").Logger(),
	}
}

// Register attaches the full task CRUD surface.
func (h *TaskHandler) Register(router fiber.Router) {
	h.RegisterOwn(router)
	router.Delete("/:id", h.delete)
}

// RegisterOwn attaches the task endpoints available to assignees, which cannot delete.
func (h *TaskHandler) RegisterOwn(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.update)
}

func (h *TaskHandler) list(c *fiber.Ctx) error {
	params, err := parseScopeParams(c)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "list tasks")
	}

	tasks, err := h.service.List(c.UserContext(), requesterFromContext(c), params)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "list tasks")
	}
	return utils.SendSuccess(c, "tasks retrieved", tasks)
}

func (h *TaskHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	task, err := h.service.Get(c.UserContext(), requesterFromContext(c), id)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "get task")
	}
	return utils.SendSuccess(c, "task retrieved", task)
}

func (h *TaskHandler) create(c *fiber.Ctx) error {
	var payload dto.TaskCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	task, err := h.service.Create(c.UserContext(), requesterFromContext(c), payload)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "create task")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "task created", task)
}

func (h *TaskHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TaskUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return invalidPayload(c)
	}

	task, err := h.service.Update(c.UserContext(), requesterFromContext(c), id, payload)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "update task")
	}
	return utils.SendSuccess(c, "task updated", task)
}

func (h *TaskHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.UserContext(), requesterFromContext(c), id); err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "delete task")
	}
	return utils.SendSuccess(c, "task deleted", fiber.Map{"id": id})
}
