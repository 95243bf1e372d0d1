package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kontest/internal/users"
)

// serviceError maps service errors to HTTP errors. Unknown errors are
// returned unchanged and rendered as 500.
func serviceError(err error) error {
	var verr *users.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Message)
	case errors.Is(err, users.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	case errors.Is(err, users.ErrProfileNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Profile not found")
	case errors.Is(err, users.ErrUserExists):
		return fiber.NewError(fiber.StatusBadRequest, "User with this email or UID already exists")
	case errors.Is(err, users.ErrCannotDeleteAdmin):
		return fiber.NewError(fiber.StatusForbidden, "Cannot delete admin users")
	case errors.Is(err, users.ErrCurrentPasswordRequired):
		return fiber.NewError(fiber.StatusBadRequest, "Current password is required to change password")
	case errors.Is(err, users.ErrIncorrectPassword):
		return fiber.NewError(fiber.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, users.ErrPasswordTooShort):
		return fiber.NewError(fiber.StatusBadRequest, "New password must be at least 6 characters")
	case errors.Is(err, users.ErrInvalidRole):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid user role")
	}
	return err
}
