package middlewares

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/forbidden", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusForbidden, "Cannot delete admin users")
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return errors.New("db down")
	})

	tests := []struct {
		path    string
		code    int
		message string
	}{
		{"/forbidden", fiber.StatusForbidden, "Cannot delete admin users"},
		{"/boom", fiber.StatusInternalServerError, "Internal server error"},
		{"/missing", fiber.StatusNotFound, "Cannot GET /missing"},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.code, resp.StatusCode, tt.path)

		var body errorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, tt.code, body.Error.Code)
		assert.Equal(t, tt.message, body.Error.Message)
		assert.NotEmpty(t, body.APIVersion)
	}
}
