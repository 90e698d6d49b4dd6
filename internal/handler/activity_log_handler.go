package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/service"
	"github.com/noah-isme/teamboard-api/internal/utils"
)

// ActivityLogHandler exposes the persisted activity log.
type ActivityLogHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityLogHandler constructs the handler.
func NewActivityLogHandler(service service.ActivityService, logger zerolog.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_log_handler").Logger(),
	}
}

// Register attaches activity log routes to the router group.
func (h *ActivityLogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *ActivityLogHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if page <= 0 {
		page = 1
	}

	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 25
	} else if pageSize > 200 {
		pageSize = 200
	}

	userID, err := parseQueryInt(c, "user_id")
	if err != nil || userID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	req := dto.ActivityLogListRequest{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		Action:   c.Query("action"),
		Kind:     c.Query("kind"),
	}

	response, err := h.service.List(c.UserContext(), requesterFromContext(c), req)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "list activity log")
	}

	return utils.OK(c, response.Items, "activity log retrieved", response.Pagination)
}
