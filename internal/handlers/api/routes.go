package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kontest/internal/middlewares/sessions"
	"github.com/khanghh/kontest/model"
)

type RouteConfig struct {
	Sessions     fiber.Handler // loads the request session
	CSRF         fiber.Handler // optional
	LoginLimiter fiber.Handler // optional
	Auth         *AuthHandler
	Users        *UserHandler
	Profile      *ProfileHandler
	Logs         *LogHandler
}

func SetupRoutes(router fiber.Router, config RouteConfig) {
	api := router.Group("/api", config.Sessions)
	if config.CSRF != nil {
		api.Use(config.CSRF)
	}

	requireSession := sessions.RequireSession()
	requireAdmin := sessions.RequireRole(model.RoleAdmin)

	login := []fiber.Handler{config.Auth.PostLogin}
	if config.LoginLimiter != nil {
		login = append([]fiber.Handler{config.LoginLimiter}, login...)
	}
	api.Post("/auth/login", login...)
	api.Post("/auth/logout", requireSession, config.Auth.PostLogout)
	api.Get("/auth/session", requireSession, config.Auth.GetSession)

	api.Get("/users", requireAdmin, config.Users.GetUsers)
	api.Post("/users", requireAdmin, config.Users.PostCreateUser)
	api.Delete("/users", requireAdmin, config.Users.DeleteUser)

	api.Get("/profile", requireSession, config.Profile.GetProfile)
	api.Patch("/profile", requireSession, config.Profile.UpdateProfile)
	api.Put("/profile", requireSession, config.Profile.UpdateProfile)
	api.Patch("/profile/avatar", requireSession, config.Profile.UpdateAvatar)
	api.Get("/participants", requireSession, config.Profile.GetParticipants)

	api.Get("/logs", requireAdmin, config.Logs.GetLoginLogs)
}
