package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateToken("alice", "Alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := m.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims.UserID)
	assert.Equal(t, "Alice", claims.Nickname)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)
	other := NewManager("other-secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateToken("alice", "Alice")
	assert.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := m.GenerateToken("alice", "Alice")
	assert.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	_, err := m.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
