package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("alice", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name())
	assert.True(t, u.IsActive())
	assert.Zero(t, u.ID())

	require.NoError(t, u.SetID(7))
	assert.Error(t, u.SetID(8))
}

func TestNewUser_RequiresUsername(t *testing.T) {
	_, err := NewUser("", "Alice")
	assert.Error(t, err)
}

func TestReconstructUser_ZeroID(t *testing.T) {
	_, err := ReconstructUser(0, "alice", "Alice", StatusActive, time.Now(), time.Now())
	assert.Error(t, err)
}
