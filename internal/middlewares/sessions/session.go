package sessions

import (
	"time"

	"github.com/khanghh/kontest/model"
)

// SessionData is the server side record of a session, kept until logout or
// expiry. Field tags must match between redis and json storages.
type SessionData struct {
	UserID    uint   `json:"user_id"    redis:"user_id"`
	Role      string `json:"role"       redis:"role"`
	UID       string `json:"uid"        redis:"uid"`
	Email     string `json:"email"      redis:"email"`
	IP        string `json:"ip"         redis:"ip"`
	UserAgent string `json:"user_agent" redis:"user_agent"`
	CSRFToken string `json:"csrf_token" redis:"csrf_token"`
	LoginTime int64  `json:"login_time" redis:"login_time"` // unix millis
	LastSeen  int64  `json:"last_seen"  redis:"last_seen"`  // unix millis
}

func (s *SessionData) IsLoggedIn() bool {
	return s.UserID != 0
}

func (s *SessionData) HasRole(role model.Role) bool {
	return s.UserID != 0 && model.Role(s.Role) == role
}

type Session struct {
	SessionData
	id        string    // session id, the sid claim
	token     string    // signed session token
	expiresAt time.Time // token expiry
	viaCookie bool      // token was read from the session cookie
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Token() string {
	return s.token
}

func (s *Session) ExpiresAt() time.Time {
	return s.expiresAt
}

// FromCookie reports whether the request was authenticated by cookie, the
// only case that needs CSRF protection.
func (s *Session) FromCookie() bool {
	return s.viaCookie
}
