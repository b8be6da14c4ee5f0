package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/classboard-dev/classboard-api/internal/dto"
	"github.com/classboard-dev/classboard-api/internal/service"
	"github.com/classboard-dev/classboard-api/internal/utils"
)

// ChatHandler wires the study-assistant HTTP route.
type ChatHandler struct {
	service service.ChatService
	logger  zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(svc service.ChatService, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: svc,
		logger:  logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Register attaches chat endpoints to the router group.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("", h.ask)
}

func (h *ChatHandler) ask(c *fiber.Ctx) error {
	var payload dto.ChatRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	reply, err := h.service.Ask(c.Context(), payload)
	if err != nil {
		if errors.Is(err, service.ErrChatUnavailable) {
			return utils.SendError(c, fiber.StatusServiceUnavailable, "study assistant is not configured")
		}
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("chat request failed")
		return utils.SendError(c, fiber.StatusBadGateway, "study assistant is temporarily unavailable")
	}

	return utils.SendSuccess(c, "reply generated", reply)
}
