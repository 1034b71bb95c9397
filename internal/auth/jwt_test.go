package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-characters!!", time.Hour)
	userID := uuid.New()

	token, err := mgr.GenerateToken(userID, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-characters!!", time.Hour)
	other := NewJWTManager("different-secret-also-32-characters!", time.Hour)

	token, err := mgr.GenerateToken(uuid.New(), "alice@example.com")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-characters!!", -time.Minute)

	token, err := mgr.GenerateToken(uuid.New(), "alice@example.com")
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_Garbage(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-characters!!", time.Hour)
	_, err := mgr.ValidateToken("not.a.token")
	assert.Error(t, err)
}
