package api

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kontest/internal/loginlog"
	"github.com/khanghh/kontest/internal/middlewares/captcha"
	"github.com/khanghh/kontest/internal/middlewares/sessions"
	"github.com/khanghh/kontest/internal/users"
	"github.com/khanghh/kontest/model"
)

type AuthHandler struct {
	userService UserService
	recorder    LoginRecorder
	sessions    SessionManager
	captcha     CaptchaVerifier
}

func loginFailureReason(err error) string {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		return "user not found"
	case errors.Is(err, users.ErrRoleMismatch):
		return "role mismatch"
	case errors.Is(err, users.ErrIncorrectPassword):
		return "incorrect password"
	}
	return "internal error"
}

func (h *AuthHandler) recordAttempt(ctx *fiber.Ctx, identifier string, user *model.User, err error) {
	attempt := loginlog.Attempt{
		Email:     identifier,
		IPAddress: ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
		Success:   err == nil,
	}
	if user != nil {
		attempt.UserID = &user.ID
	}
	if err != nil {
		attempt.Reason = loginFailureReason(err)
	}
	if _, recErr := h.recorder.Record(ctx.Context(), attempt); recErr != nil {
		slog.Warn("Failed to record login attempt", "identifier", identifier, "error", recErr)
	}
}

func (h *AuthHandler) PostLogin(ctx *fiber.Ctx) error {
	var req loginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	role := model.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	var identifier string
	switch role {
	case model.RoleAdmin:
		identifier = strings.TrimSpace(req.Email)
		if identifier == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email is required")
		}
	case model.RoleParticipant:
		identifier = strings.TrimSpace(req.UID)
		if identifier == "" {
			return fiber.NewError(fiber.StatusBadRequest, "UID is required")
		}
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Invalid user role")
	}
	if req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Password is required")
	}

	if err := h.captcha.Verify(req.CaptchaToken, ctx.IP()); err != nil {
		if errors.Is(err, captcha.ErrInvalidCaptcha) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	user, err := h.userService.Authenticate(ctx.Context(), identifier, req.Password, role)
	h.recordAttempt(ctx, identifier, user, err)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) || errors.Is(err, users.ErrRoleMismatch) || errors.Is(err, users.ErrIncorrectPassword) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}

	sess, err := h.sessions.Start(ctx, sessions.SessionData{
		UserID:    user.ID,
		Role:      string(user.Role),
		UID:       user.UIDString(),
		Email:     user.Email,
		IP:        ctx.IP(),
		UserAgent: ctx.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return err
	}

	return ctx.JSON(NewDataResponse(sessionResponse{
		UserID:    strconv.FormatUint(uint64(user.ID), 10),
		Role:      string(user.Role),
		UID:       user.UIDString(),
		Email:     user.Email,
		Name:      user.DisplayName(),
		Token:     sess.Token(),
		CSRFToken: sess.CSRFToken,
		ExpiresAt: sess.ExpiresAt().UnixMilli(),
	}))
}

func (h *AuthHandler) PostLogout(ctx *fiber.Ctx) error {
	if err := h.sessions.Destroy(ctx); err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(messageResponse{Message: "Logged out"}))
}

func (h *AuthHandler) GetSession(ctx *fiber.Ctx) error {
	sess := sessions.Get(ctx)
	return ctx.JSON(NewDataResponse(sessionResponse{
		UserID:    strconv.FormatUint(uint64(sess.UserID), 10),
		Role:      sess.Role,
		UID:       sess.UID,
		Email:     sess.Email,
		CSRFToken: sess.CSRFToken,
		ExpiresAt: sess.ExpiresAt().UnixMilli(),
	}))
}

func NewAuthHandler(userService UserService, recorder LoginRecorder, sessionManager SessionManager, captchaVerifier CaptchaVerifier) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		recorder:    recorder,
		sessions:    sessionManager,
		captcha:     captchaVerifier,
	}
}
