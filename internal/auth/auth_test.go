package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestSignToken(t *testing.T) {
	token, err := SignToken("test-secret", time.Hour, "user-123", "alice", "a@x.com")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestParseToken(t *testing.T) {
	secret := "test-secret"

	t.Run("valid token", func(t *testing.T) {
		token, err := SignToken(secret, time.Hour, "user-123", "alice", "a@x.com")
		assert.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.NoError(t, err)
		assert.NotNil(t, claims)
		assert.Equal(t, "user-123", claims.Subject)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, "a@x.com", claims.Email)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := SignToken("other-secret", time.Hour, "user-123", "alice", "a@x.com")
		assert.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("expired token", func(t *testing.T) {
		c := Claims{
			Username: "alice",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-123",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			},
		}
		tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
		token, err := tkn.SignedString([]byte(secret))
		assert.NoError(t, err)

		claims, err := ParseToken(secret, token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("malformed token", func(t *testing.T) {
		claims, err := ParseToken(secret, "not.a.valid.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret-password-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "secret-password-1", hash)

	t.Run("correct password", func(t *testing.T) {
		assert.True(t, VerifyPassword(hash, "secret-password-1"))
	})

	t.Run("wrong password", func(t *testing.T) {
		assert.False(t, VerifyPassword(hash, "wrong-password"))
	})
}

func TestIdentityFromContext(t *testing.T) {
	t.Run("anonymous context", func(t *testing.T) {
		_, ok := IdentityFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("authenticated context", func(t *testing.T) {
		ctx := WithIdentity(context.Background(), Identity{ID: "user-123", Username: "alice"})
		id, ok := IdentityFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "user-123", id.ID)
		assert.Equal(t, "alice", id.Username)
	})
}
