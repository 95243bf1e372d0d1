package sessions

import "errors"

var (
	ErrNoSession    = errors.New("no session")
	ErrTokenInvalid = errors.New("invalid session token")
	ErrRevoked      = errors.New("session revoked")
)
