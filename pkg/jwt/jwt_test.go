package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	t.Run("Round Trip", func(t *testing.T) {
		token, err := svc.Generate(10, "asha@example.com", "user")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, int64(10), claims.UserID)
		assert.Equal(t, "asha@example.com", claims.Email)
		assert.Equal(t, "user", claims.Role)
		assert.Equal(t, "linkedbus-api", claims.Issuer)
		assert.Equal(t, "10", claims.Subject)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		token, err := svc.Generate(10, "asha@example.com", "user")
		require.NoError(t, err)

		other := NewService("other-secret", time.Hour)
		claims, err := other.Validate(token)
		assert.Nil(t, claims)
		assert.Error(t, err)
	})

	t.Run("Garbage Token", func(t *testing.T) {
		claims, err := svc.Validate("not.a.token")
		assert.Nil(t, claims)
		assert.Error(t, err)
	})
}

func TestExpiredToken(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	token, err := svc.Generate(10, "asha@example.com", "user")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	assert.Nil(t, claims)
	assert.Error(t, err)

	assert.True(t, svc.IsTokenExpired(token))
}

func TestIsTokenExpired(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	token, err := svc.Generate(10, "asha@example.com", "user")
	require.NoError(t, err)

	assert.False(t, svc.IsTokenExpired(token))
	assert.True(t, svc.IsTokenExpired("garbage"))
}
