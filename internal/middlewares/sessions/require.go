package sessions

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kontest/model"
)

// RequireSession rejects requests without a session with 401.
func RequireSession() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if sess := Get(ctx); sess == nil || !sess.IsLoggedIn() {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		return ctx.Next()
	}
}

// RequireRole rejects requests without a session with 401 and sessions of
// another role with 403.
func RequireRole(role model.Role) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sess := Get(ctx)
		if sess == nil || !sess.IsLoggedIn() {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		if !sess.HasRole(role) {
			return fiber.NewError(fiber.StatusForbidden, "Forbidden")
		}
		return ctx.Next()
	}
}
