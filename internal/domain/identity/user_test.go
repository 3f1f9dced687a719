package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

func TestNewUser(t *testing.T) {
	t.Run("creates active user with hashed password", func(t *testing.T) {
		user, err := NewUser("  Alice ", "secret123", RoleAdmin)

		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.True(t, user.Active)
		assert.True(t, user.IsAdmin())
		assert.NotEqual(t, "secret123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("secret123"))
		assert.False(t, user.VerifyPassword("wrong"))
	})

	t.Run("rejects weak password", func(t *testing.T) {
		_, err := NewUser("alice", "password", RoleAdmin)
		assert.Contains(t, err.Error(), "letter and one number")
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser("alice", "secret123", Role("owner"))
		assert.Contains(t, err.Error(), "Role must be")
	})

	t.Run("rejects short username", func(t *testing.T) {
		_, err := NewUser("al", "secret123", RoleEngineer)
		assert.Error(t, err)
	})
}

func TestUser_LoginTracking(t *testing.T) {
	user, err := NewUser("bob", "secret123", RoleEngineer)
	require.NoError(t, err)

	assert.False(t, user.RecordLoginFailure(3, time.Minute))
	assert.False(t, user.RecordLoginFailure(3, time.Minute))
	assert.True(t, user.RecordLoginFailure(3, time.Minute))
	assert.True(t, user.IsLocked())
	assert.False(t, user.CanLogin())

	user.RecordLoginSuccess()
	assert.False(t, user.IsLocked())
	assert.Equal(t, 0, user.FailedAttempts)
	assert.NotNil(t, user.LastLoginAt)

	user.Deactivate()
	assert.False(t, user.CanLogin())
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewUser("carol", "secret123", RoleEngineer)
	require.NoError(t, err)

	require.NoError(t, user.ChangePassword("newsecret456"))
	assert.True(t, user.VerifyPassword("newsecret456"))
	assert.False(t, user.VerifyPassword("secret123"))
	assert.Error(t, user.ChangePassword("short1"))
}
