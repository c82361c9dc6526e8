package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"signpost/internal/domain"
	"signpost/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T) (JWTVerifier, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verifier := NewStaticVerifier(func(*jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}, logger)
	t.Cleanup(func() { _ = verifier.Close() })

	return verifier, key
}

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims models.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() models.Claims {
	return models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "writer@example.com",
	}
}

func TestVerifyToken_Valid(t *testing.T) {
	verifier, key := newTestVerifier(t)

	claims, err := verifier.VerifyToken(sign(t, jwt.SigningMethodRS256, key, validClaims()))
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.GetUserID())
	assert.Equal(t, "writer@example.com", claims.Email)
}

func TestVerifyToken_Rejects(t *testing.T) {
	verifier, key := newTestVerifier(t)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noSubject := validClaims()
	noSubject.Subject = ""

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.jwt"},
		{name: "expired", token: sign(t, jwt.SigningMethodRS256, key, expired)},
		{name: "missing expiry", token: sign(t, jwt.SigningMethodRS256, key, noExpiry)},
		{name: "missing subject", token: sign(t, jwt.SigningMethodRS256, key, noSubject)},
		{name: "wrong key", token: sign(t, jwt.SigningMethodRS256, otherKey, validClaims())},
		{name: "symmetric algorithm", token: sign(t, jwt.SigningMethodHS256, []byte("secret"), validClaims())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.VerifyToken(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrUnauthorized))
		})
	}
}

func TestNewJWTVerifier_RequiresURL(t *testing.T) {
	_, err := NewJWTVerifier("", slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}
