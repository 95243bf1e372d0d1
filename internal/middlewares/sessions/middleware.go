package sessions

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kontest/internal/store"
	"github.com/khanghh/kontest/params"
	"github.com/valyala/fasthttp"
)

const (
	sessionContextKey = "session"
)

type Config struct {
	Storage        store.Storage
	MasterKey      string
	SessionMaxAge  time.Duration
	CookieSecure   bool
	CookieHttpOnly bool
	CookieName     string
}

func applyDefaults(conf Config) Config {
	if conf.SessionMaxAge <= 0 {
		conf.SessionMaxAge = params.DefaultSessionMaxAge
	}
	if conf.CookieName == "" {
		conf.CookieName = params.DefaultSessionCookieKey
	}
	return conf
}

// Manager issues, loads and revokes sessions.
type Manager struct {
	config Config
	store  *Store
}

func bearerToken(ctx *fiber.Ctx) string {
	auth := ctx.Get(fiber.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// Handler loads the session named by the request token, if any. Requests
// without a valid session pass through, RequireSession rejects them.
func (m *Manager) Handler() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token, viaCookie := ctx.Cookies(m.config.CookieName), true
		if token == "" {
			token, viaCookie = bearerToken(ctx), false
		}
		if token == "" {
			return ctx.Next()
		}

		sess, err := m.store.Load(ctx.Context(), token)
		switch {
		case err == nil:
			sess.viaCookie = viaCookie
			ctx.Locals(sessionContextKey, sess)
		case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrRevoked):
			slog.Debug("Rejected session token", "ip", ctx.IP(), "error", err)
			if viaCookie {
				ctx.ClearCookie(m.config.CookieName)
			}
		default:
			return err
		}

		if err := ctx.Next(); err != nil {
			return err
		}
		if sess != nil && Get(ctx) == sess {
			if err := m.store.Touch(ctx.Context(), sess); err != nil {
				slog.Warn("Could not update session", "sid", sess.id, "error", err)
			}
		}
		return nil
	}
}

// Start creates a session for data and sets the session cookie.
func (m *Manager) Start(ctx *fiber.Ctx, data SessionData) (*Session, error) {
	sess, err := m.store.Create(ctx.Context(), data)
	if err != nil {
		return nil, err
	}
	setCookie(ctx, &m.config, sess)
	ctx.Locals(sessionContextKey, sess)
	return sess, nil
}

// Destroy revokes the current session and clears the cookie.
func (m *Manager) Destroy(ctx *fiber.Ctx) error {
	ctx.ClearCookie(m.config.CookieName)
	sess := Get(ctx)
	if sess == nil {
		return nil
	}
	ctx.Locals(sessionContextKey, nil)
	return m.store.Delete(ctx.Context(), sess.id)
}

// Get returns the session of the request, nil when not logged in.
func Get(ctx *fiber.Ctx) *Session {
	sess, _ := ctx.Locals(sessionContextKey).(*Session)
	return sess
}

func setCookie(ctx *fiber.Ctx, config *Config, s *Session) {
	fcookie := fasthttp.AcquireCookie()
	fcookie.SetKey(config.CookieName)
	fcookie.SetValue(s.token)
	fcookie.SetPath("/")
	fcookie.SetSecure(config.CookieSecure)
	fcookie.SetHTTPOnly(config.CookieHttpOnly)
	fcookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	fcookie.SetMaxAge(int(config.SessionMaxAge.Seconds()))
	fcookie.SetExpire(s.expiresAt)
	ctx.Response().Header.SetCookie(fcookie)
	fasthttp.ReleaseCookie(fcookie)
}

func NewManager(config Config) *Manager {
	config = applyDefaults(config)
	return &Manager{
		config: config,
		store:  NewStore(config.Storage, params.SessionKeyPrefix, config.MasterKey, config.SessionMaxAge),
	}
}
