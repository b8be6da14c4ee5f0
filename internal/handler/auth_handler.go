package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/classboard-dev/classboard-api/internal/dto"
	"github.com/classboard-dev/classboard-api/internal/service"
	"github.com/classboard-dev/classboard-api/internal/utils"
)

// AuthHandler wires account HTTP routes.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches auth endpoints to the router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/verify-email", h.verifyEmail)
	router.Post("/resend-otp", h.resendOTP)
	router.Post("/forgot-password", h.forgotPassword)
	router.Post("/reset-password", h.resetPassword)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created, verification code sent", user)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	token, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", token)
}

func (h *AuthHandler) verifyEmail(c *fiber.Ctx) error {
	var payload dto.VerifyEmailRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.VerifyEmail(c.Context(), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "email verified", nil)
}

func (h *AuthHandler) resendOTP(c *fiber.Ctx) error {
	var payload dto.ResendOTPRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ResendOTP(c.Context(), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "verification code sent", nil)
}

func (h *AuthHandler) forgotPassword(c *fiber.Ctx) error {
	var payload dto.ForgotPasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ForgotPassword(c.Context(), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "reset instructions sent if the address is registered", nil)
}

func (h *AuthHandler) resetPassword(c *fiber.Ctx) error {
	var payload dto.ResetPasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ResetPassword(c.Context(), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "password reset", nil)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, service.ErrEmailNotVerified):
		return utils.SendError(c, fiber.StatusForbidden, "email not verified")
	case errors.Is(err, service.ErrUserExists):
		return utils.SendError(c, fiber.StatusConflict, "username or email already registered")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrInvalidOTP):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid or expired verification code")
	case errors.Is(err, service.ErrInvalidResetToken):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid or expired reset token")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
