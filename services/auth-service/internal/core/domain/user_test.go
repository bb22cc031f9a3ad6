package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("alice@example.com", "alice", "s3cret-password")
	require.NoError(t, err)

	assert.NotEqual(t, "", user.ID.String())
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cret-password", user.PasswordHash)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestCheckPassword(t *testing.T) {
	user, err := NewUser("bob@example.com", "bob", "correct-horse")
	require.NoError(t, err)

	assert.True(t, user.CheckPassword("correct-horse"))
	assert.False(t, user.CheckPassword("wrong-horse"))
	assert.False(t, user.CheckPassword(""))
}

func TestNewUserProducesDistinctHashes(t *testing.T) {
	first, err := NewUser("a@example.com", "a", "same-password")
	require.NoError(t, err)
	second, err := NewUser("b@example.com", "b", "same-password")
	require.NoError(t, err)

	// bcrypt salts every hash.
	assert.NotEqual(t, first.PasswordHash, second.PasswordHash)
}
