package utils

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims carries the identity encoded in a dashboard session
// cookie. Sessions are issued by the dashboard auth service; this
// server only verifies them.
type SessionClaims struct {
	UserID string // "sub" claim
	Email  string // "email" claim (may be empty)
}

var errInvalidSession = errors.New("invalid session token")

// VerifySession parses and validates an HS256 session JWT with the
// given secret and returns its claims. Any parse, signature or expiry
// failure yields an error; callers treat that as "no human session"
// rather than a hard failure.
func VerifySession(secret, token string) (SessionClaims, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidSession
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return SessionClaims{}, errInvalidSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, errInvalidSession
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return SessionClaims{}, errInvalidSession
	}
	email, _ := claims["email"].(string)
	return SessionClaims{UserID: sub, Email: email}, nil
}
