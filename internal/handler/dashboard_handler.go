package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/service"
	"github.com/noah-isme/teamboard-api/internal/utils"
)

// DashboardHandler serves the per-role dashboard counters and the shared report.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard-stats endpoint of one role group.
func (h *DashboardHandler) Register(router fiber.Router, role models.Role) {
	switch role {
	case models.RoleSupermanager:
		router.Get("/dashboard-stats", h.supermanager)
	case models.RoleManager:
		router.Get("/dashboard-stats", h.manager)
	case models.RoleEmployee:
		router.Get("/dashboard-stats", h.employee)
	}
}

// RegisterReports attaches the report endpoint.
func (h *DashboardHandler) RegisterReports(router fiber.Router) {
	router.Get("", h.report)
}

func (h *DashboardHandler) supermanager(c *fiber.Ctx) error {
	stats, err := h.service.Supermanager(c.UserContext(), requesterFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "supermanager dashboard")
	}
	return utils.SendSuccess(c, "dashboard stats retrieved", stats)
}

func (h *DashboardHandler) manager(c *fiber.Ctx) error {
	stats, err := h.service.Manager(c.UserContext(), requesterFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "manager dashboard")
	}
	return utils.SendSuccess(c, "dashboard stats retrieved", stats)
}

func (h *DashboardHandler) employee(c *fiber.Ctx) error {
	stats, err := h.service.Employee(c.UserContext(), requesterFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "employee dashboard")
	}
	return utils.SendSuccess(c, "dashboard stats retrieved", stats)
}

func (h *DashboardHandler) report(c *fiber.Ctx) error {
	params, err := parseScopeParams(c)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "report")
	}

	report, err := h.service.Report(c.UserContext(), requesterFromContext(c), params)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "report")
	}
	return utils.SendSuccess(c, "report generated", report)
}
