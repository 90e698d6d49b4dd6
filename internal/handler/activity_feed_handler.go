package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/teamboard-api/internal/dto"
	"github.com/noah-isme/teamboard-api/internal/service"
	"github.com/noah-isme/teamboard-api/internal/utils"
)

// ActivityFeedHandler serves the derived recent-activity feed.
type ActivityFeedHandler struct {
	service service.ActivityFeedService
	logger  zerolog.Logger
}

// NewActivityFeedHandler constructs the handler instance.
func NewActivityFeedHandler(service service.ActivityFeedService, logger zerolog.Logger) *ActivityFeedHandler {
	return &ActivityFeedHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_feed_handler").Logger(),
	}
}

// Register wires the activity feed routes.
func (h *ActivityFeedHandler) Register(router fiber.Router) {
	router.Get("", h.recent)
}

func (h *ActivityFeedHandler) recent(c *fiber.Ctx) error {
	limit, err := parseLimit(c)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "recent activity")
	}

	result, err := h.service.Recent(c.UserContext(), requesterFromContext(c), dto.ActivityFeedRequest{Limit: limit})
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "recent activity")
	}

	return utils.SendSuccess(c, "recent activity retrieved", result.Items)
}
