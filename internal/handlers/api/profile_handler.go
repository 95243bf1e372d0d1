package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kontest/internal/middlewares/sessions"
	"github.com/khanghh/kontest/internal/users"
)

type ProfileHandler struct {
	userService UserService
}

func (h *ProfileHandler) GetProfile(ctx *fiber.Ctx) error {
	sess := sessions.Get(ctx)
	user, err := h.userService.GetUserByID(ctx.Context(), sess.UserID)
	if err != nil {
		return serviceError(err)
	}
	return ctx.JSON(NewDataResponse(user))
}

func (h *ProfileHandler) UpdateProfile(ctx *fiber.Ctx) error {
	var req updateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	sess := sessions.Get(ctx)
	user, err := h.userService.UpdateProfile(ctx.Context(), sess.UserID, users.UpdateProfileOptions{
		Name:            req.Name,
		College:         req.College,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return serviceError(err)
	}
	return ctx.JSON(NewDataResponse(messageResponse{Message: "Profile updated successfully", User: user}))
}

func (h *ProfileHandler) UpdateAvatar(ctx *fiber.Ctx) error {
	var req updateAvatarRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	sess := sessions.Get(ctx)
	user, err := h.userService.UpdateAvatar(ctx.Context(), sess.UserID, users.UpdateAvatarOptions{
		AvatarURL: req.AvatarURL,
		Gender:    req.Gender,
	})
	if err != nil {
		return serviceError(err)
	}
	return ctx.JSON(NewDataResponse(messageResponse{Message: "Avatar updated successfully", User: user}))
}

func (h *ProfileHandler) GetParticipants(ctx *fiber.Ctx) error {
	list, err := h.userService.ListParticipants(ctx.Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []users.ParticipantSummary{}
	}
	return ctx.JSON(NewDataResponse(list))
}

func NewProfileHandler(userService UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}
