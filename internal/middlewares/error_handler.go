package middlewares

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kontest/params"
)

type errorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	APIVersion string    `json:"apiVersion"`
	Error      errorInfo `json:"error"`
}

// ErrorHandler renders every error returned by a handler as a JSON envelope.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("Unhandled error", "method", ctx.Method(), "path", ctx.Path(), "code", code, "error", err)
	}
	return ctx.Status(code).JSON(errorResponse{
		APIVersion: params.APIVersion,
		Error:      errorInfo{Code: code, Message: message},
	})
}
