package api

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kontest/internal/users"
	"github.com/khanghh/kontest/model"
)

type UserHandler struct {
	userService UserService
	notifier    WelcomeNotifier
}

func (h *UserHandler) PostCreateUser(ctx *fiber.Ctx) error {
	var req createUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	user, err := h.userService.CreateParticipant(ctx.Context(), users.CreateParticipantOptions{
		Email:          strings.TrimSpace(req.Email),
		UID:            strings.TrimSpace(req.UID),
		Password:       req.Password,
		Role:           model.Role(strings.ToUpper(req.Role)),
		Name:           strings.TrimSpace(req.Name),
		College:        req.College,
		HostelName:     req.HostelName,
		WifiUsername:   req.WifiUsername,
		WifiPassword:   req.WifiPassword,
		HostelLocation: req.HostelLocation,
		ContactNumber:  req.ContactNumber,
	})
	if err != nil {
		return serviceError(err)
	}

	if h.notifier != nil {
		go func() {
			if err := h.notifier.NotifyParticipant(user); err != nil {
				slog.Warn("Failed to send welcome mail", "userID", user.ID, "error", err)
			}
		}()
	}

	return ctx.Status(fiber.StatusCreated).JSON(NewDataResponse(createUserResponse{
		Message: "User created successfully",
		UserID:  strconv.FormatUint(uint64(user.ID), 10),
	}))
}

func (h *UserHandler) GetUsers(ctx *fiber.Ctx) error {
	list, err := h.userService.ListUsers(ctx.Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []*model.User{}
	}
	return ctx.JSON(NewDataResponse(list))
}

func (h *UserHandler) DeleteUser(ctx *fiber.Ctx) error {
	rawID := ctx.Query("userId")
	if rawID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "User ID is required")
	}
	userID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid user ID")
	}
	if err := h.userService.DeleteUser(ctx.Context(), uint(userID)); err != nil {
		return serviceError(err)
	}
	return ctx.JSON(NewDataResponse(messageResponse{Message: "User deleted successfully"}))
}

func NewUserHandler(userService UserService, notifier WelcomeNotifier) *UserHandler {
	return &UserHandler{
		userService: userService,
		notifier:    notifier,
	}
}
