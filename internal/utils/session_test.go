package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signSession(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifySession(t *testing.T) {
	t.Parallel()

	token := signSession(t, "s3cret", jwt.MapClaims{
		"sub":   "user-1",
		"email": "dev@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := VerifySession("s3cret", token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "dev@example.com", claims.Email)
}

func TestVerifySessionWrongSecret(t *testing.T) {
	t.Parallel()

	token := signSession(t, "s3cret", jwt.MapClaims{"sub": "user-1"})
	_, err := VerifySession("other", token)
	require.Error(t, err)
}

func TestVerifySessionExpired(t *testing.T) {
	t.Parallel()

	token := signSession(t, "s3cret", jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	_, err := VerifySession("s3cret", token)
	require.Error(t, err)
}

func TestVerifySessionMissingSubject(t *testing.T) {
	t.Parallel()

	token := signSession(t, "s3cret", jwt.MapClaims{"email": "dev@example.com"})
	_, err := VerifySession("s3cret", token)
	require.Error(t, err)
}

func TestVerifySessionRejectsUnsignedToken(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1"})
	signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = VerifySession("s3cret", signed)
	require.Error(t, err)
}
