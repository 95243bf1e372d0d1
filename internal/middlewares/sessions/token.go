package sessions

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/khanghh/kontest/params"
)

type claims struct {
	jwt.RegisteredClaims
	Role      string `json:"role"`
	UID       string `json:"uid,omitempty"`
	SessionID string `json:"sid"`
}

type tokenSigner struct {
	key []byte
}

func (s *tokenSigner) sign(sessionID string, data *SessionData, expiresAt time.Time) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    params.SessionTokenIssuer,
			Subject:   strconv.FormatUint(uint64(data.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:      data.Role,
		UID:       data.UID,
		SessionID: sessionID,
	})
	return token.SignedString(s.key)
}

func (s *tokenSigner) parse(tokenString string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(params.SessionTokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Join(ErrTokenInvalid, err)
	}
	if c.SessionID == "" || c.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return &c, nil
}
