package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/khanghh/kontest/internal/store"
	"github.com/khanghh/kontest/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *Manager) {
	t.Helper()
	manager := NewManager(Config{
		Storage:       store.NewMemoryStorage(memory.New()),
		MasterKey:     "test-master-key",
		SessionMaxAge: time.Hour,
		CookieName:    "sid",
	})

	app := fiber.New()
	app.Use(manager.Handler())
	app.Post("/login/:role", func(ctx *fiber.Ctx) error {
		sess, err := manager.Start(ctx, SessionData{UserID: 42, Role: ctx.Params("role"), UID: "P042", Email: "p@example.com"})
		if err != nil {
			return err
		}
		return ctx.JSON(fiber.Map{"token": sess.Token(), "csrf": sess.CSRFToken})
	})
	app.Post("/logout", func(ctx *fiber.Ctx) error {
		return manager.Destroy(ctx)
	})
	app.Get("/me", RequireSession(), func(ctx *fiber.Ctx) error {
		return ctx.SendString(Get(ctx).Email)
	})
	app.Get("/admin", RequireRole(model.RoleAdmin), func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	})
	return app, manager
}

func login(t *testing.T, app *fiber.App, role model.Role) (string, *http.Cookie) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login/"+string(role), nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	return cookie.Value, cookie
}

func get(t *testing.T, app *fiber.App, path string, token string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireSession(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "garbage"))

	token, cookie := login(t, app, model.RoleParticipant)
	assert.Equal(t, fiber.StatusOK, get(t, app, "/me", token))

	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/admin", ""))

	participantToken, _ := login(t, app, model.RoleParticipant)
	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", participantToken))

	adminToken, _ := login(t, app, model.RoleAdmin)
	assert.Equal(t, fiber.StatusOK, get(t, app, "/admin", adminToken))
}

func TestDestroyRevokesToken(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := login(t, app, model.RoleParticipant)

	req := httptest.NewRequest(fiber.MethodPost, "/logout", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", token))
}

func TestTokenSignedWithOtherKey(t *testing.T) {
	app, _ := newTestApp(t)
	other := &tokenSigner{key: []byte("another-key")}
	token, err := other.sign("sid-1", &SessionData{UserID: 42, Role: string(model.RoleAdmin)}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/admin", token))
}

func TestTokenSigner_Expired(t *testing.T) {
	signer := &tokenSigner{key: []byte("k")}
	token, err := signer.sign("sid-1", &SessionData{UserID: 1, Role: "ADMIN"}, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = signer.parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	token, err = signer.sign("sid-2", &SessionData{UserID: 7, Role: "PARTICIPANT", UID: "P7"}, time.Now().Add(time.Minute))
	require.NoError(t, err)
	c, err := signer.parse(token)
	require.NoError(t, err)
	assert.Equal(t, "7", c.Subject)
	assert.Equal(t, "sid-2", c.SessionID)
	assert.Equal(t, "P7", c.UID)
}
