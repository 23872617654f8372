package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims AccessClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func baseClaims() AccessClaims {
	return AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ID:        "session-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:   "teacher@school.example",
		Roles:   []string{"registrar"},
		IsAdmin: false,
	}
}

func TestVerify_ValidToken(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	actor, err := verifier.Verify(signToken(t, testSecret, baseClaims()))
	require.NoError(t, err)

	assert.Equal(t, "user-1", actor.UserID)
	assert.Equal(t, "teacher@school.example", actor.Email)
	assert.Equal(t, []string{"registrar"}, actor.Roles)
	assert.Equal(t, "session-1", actor.SessionID)
	assert.False(t, actor.IsAdmin)
}

func TestVerify_AdminClaim(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	claims := baseClaims()
	claims.IsAdmin = true

	actor, err := verifier.Verify(signToken(t, testSecret, claims))
	require.NoError(t, err)
	assert.True(t, actor.IsAdmin)
}

func TestVerify_WrongSecret(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	_, err := verifier.Verify(signToken(t, []byte("other-secret"), baseClaims()))
	assert.Error(t, err)
}

func TestVerify_ExpiredToken(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	claims := baseClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	_, err := verifier.Verify(signToken(t, testSecret, claims))
	assert.Error(t, err)
}

func TestVerify_MissingSubject(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	claims := baseClaims()
	claims.Subject = ""

	_, err := verifier.Verify(signToken(t, testSecret, claims))
	assert.Error(t, err)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, baseClaims())
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.Error(t, err)
}
