package csrf

import (
	"crypto/subtle"
	"errors"
	"path"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kontest/internal/middlewares/sessions"
	"github.com/khanghh/kontest/params"
)

var (
	ErrInvalidToken = errors.New("invalid CSRF token")
)

func isSafeMethod(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	}
	return false
}

// Verify reports whether the request carries the CSRF token of its session.
func Verify(ctx *fiber.Ctx, sess *sessions.Session) bool {
	token := ctx.Get(params.CSRFHeader)
	if token == "" || sess.CSRFToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(sess.CSRFToken)) == 1
}

type Config struct {
	ExcludePaths []string
}

// New checks mutating requests authenticated by the session cookie. Bearer
// authenticated requests and anonymous requests pass through.
func New(config Config) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if isSafeMethod(ctx.Method()) {
			return ctx.Next()
		}
		for _, p := range config.ExcludePaths {
			if ok, _ := path.Match(p, ctx.Path()); ok {
				return ctx.Next()
			}
		}
		sess := sessions.Get(ctx)
		if sess == nil || !sess.FromCookie() {
			return ctx.Next()
		}
		if !Verify(ctx, sess) {
			return fiber.NewError(fiber.StatusForbidden, ErrInvalidToken.Error())
		}
		return ctx.Next()
	}
}
