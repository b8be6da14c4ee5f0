package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/classboard-dev/classboard-api/internal/dto"
	"github.com/classboard-dev/classboard-api/internal/middleware"
	"github.com/classboard-dev/classboard-api/internal/models"
	"github.com/classboard-dev/classboard-api/internal/service"
	"github.com/classboard-dev/classboard-api/internal/utils"
)

// AttendanceHandler wires attendance HTTP routes.
type AttendanceHandler struct {
	service service.AttendanceService
	logger  zerolog.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc service.AttendanceService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: svc,
		logger:  logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches attendance endpoints to the router group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	router.Post("", middleware.RequireRole(models.RoleTeacher, models.RoleAdmin), h.mark)
	router.Get("/class", middleware.RequireRole(models.RoleTeacher, models.RoleAdmin), h.listForClass)
	router.Get("/mine", middleware.RequireRole(models.RoleStudent), h.listMine)
	router.Get("/mine/summary", middleware.RequireRole(models.RoleStudent), h.summary)
}

func (h *AttendanceHandler) mark(c *fiber.Ctx) error {
	var payload dto.MarkAttendanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	records, err := h.service.Mark(c.Context(), middleware.CurrentUserID(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attendance marked", records)
}

func (h *AttendanceHandler) listForClass(c *fiber.Ctx) error {
	className := c.Query("class_name")
	division := c.Query("division")
	date := c.Query("date")
	if className == "" || division == "" || date == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "class_name, division and date are required")
	}

	records, err := h.service.ListForClass(c.Context(), className, division, date)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance retrieved", records)
}

func (h *AttendanceHandler) listMine(c *fiber.Ctx) error {
	records, err := h.service.ListForStudent(c.Context(), middleware.CurrentUserID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance retrieved", records)
}

func (h *AttendanceHandler) summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.Context(), middleware.CurrentUserID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance summary", summary)
}

func (h *AttendanceHandler) handleError(c *fiber.Ctx, err error) error {
	var parseErr *time.ParseError
	if isValidationError(err) || errors.As(err, &parseErr) {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
