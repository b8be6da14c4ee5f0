package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/classboard-dev/classboard-api/internal/middleware"
	"github.com/classboard-dev/classboard-api/internal/models"
	"github.com/classboard-dev/classboard-api/internal/repository"
	"github.com/classboard-dev/classboard-api/internal/service"
	"github.com/classboard-dev/classboard-api/internal/utils"
)

// DashboardHandler wires dashboard HTTP routes.
type DashboardHandler struct {
	service service.DashboardService
	users   repository.UserRepository
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(svc service.DashboardService, users repository.UserRepository, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: svc,
		users:   users,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches dashboard endpoints to the router group.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/student", middleware.RequireRole(models.RoleStudent), h.student)
	router.Get("/teacher", middleware.RequireRole(models.RoleTeacher, models.RoleAdmin), h.teacher)
}

func (h *DashboardHandler) student(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err)
	}

	dashboard, err := h.service.StudentDashboard(c.Context(), user)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) teacher(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err)
	}

	dashboard, err := h.service.TeacherDashboard(c.Context(), user)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) currentUser(c *fiber.Ctx) (models.User, error) {
	return h.users.GetByID(c.Context(), middleware.CurrentUserID(c))
}

func (h *DashboardHandler) handleError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	}

	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
