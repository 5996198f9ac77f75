package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/familyalbum/server/internal/models"
)

func TestSessionService_Tokens(t *testing.T) {
	svc := NewSessionService("test-secret", "family-password", "")
	issued := time.Date(2026, 2, 15, 8, 0, 0, 0, time.UTC)

	t.Run("issued token verifies", func(t *testing.T) {
		token, err := svc.IssueToken(issued)
		require.NoError(t, err)

		assert.True(t, svc.VerifyToken(token, issued))
		assert.True(t, svc.VerifyToken(token, issued.Add(time.Hour)))
	})

	t.Run("token is valid for exactly eight hours", func(t *testing.T) {
		token, err := svc.IssueToken(issued)
		require.NoError(t, err)

		assert.True(t, svc.VerifyToken(token, issued.Add(8*time.Hour)))
		assert.False(t, svc.VerifyToken(token, issued.Add(8*time.Hour+time.Second)))
	})

	t.Run("rejects tampered tokens", func(t *testing.T) {
		token, err := svc.IssueToken(issued)
		require.NoError(t, err)

		assert.False(t, svc.VerifyToken(token+"0", issued))
		assert.False(t, svc.VerifyToken("1"+token, issued))
		assert.False(t, svc.VerifyToken("", issued))
		assert.False(t, svc.VerifyToken("no-separator", issued))
	})

	t.Run("rejects tokens signed with a different secret", func(t *testing.T) {
		other := NewSessionService("other-secret", "x", "")
		token, err := other.IssueToken(issued)
		require.NoError(t, err)

		assert.False(t, svc.VerifyToken(token, issued))
	})

	t.Run("rejects tokens issued in the future", func(t *testing.T) {
		token, err := svc.IssueToken(issued)
		require.NoError(t, err)

		assert.False(t, svc.VerifyToken(token, issued.Add(-time.Minute)))
	})
}

func TestSessionService_VerifyPassword(t *testing.T) {
	t.Run("constant-time plaintext comparison", func(t *testing.T) {
		svc := NewSessionService("secret", "correct", "")

		assert.NoError(t, svc.VerifyPassword("correct"))
		assert.Error(t, svc.VerifyPassword("wrong"))
	})

	t.Run("unconfigured service reports not configured", func(t *testing.T) {
		svc := NewSessionService("", "", "")

		err := svc.VerifyPassword("anything")
		require.Error(t, err)
		assert.Equal(t, models.KindNotConfigured, models.KindOf(err))
	})
}
